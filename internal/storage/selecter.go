package storage

import (
	"fmt"
	"slices"
	"strings"
)

const (
	defaultSelectorRowLength = 80
	defaultSelectorRowCount  = 5
)

type validatingSelectable interface {
	ValidatingSpec
	Selector() string
}

// SelectableStorer numbers the assets of a store so they can be picked from a
// text menu.
type SelectableStorer[T validatingSelectable] struct {
	Storer[T]

	options []option[T]
	output  []string
}

type option[T validatingSelectable] struct {
	id  string
	val T
}

func NewSelectableStorer[T validatingSelectable](st Storer[T]) *SelectableStorer[T] {
	s := &SelectableStorer[T]{Storer: st}

	for id, val := range s.GetAll() {
		s.options = append(s.options, option[T]{id: id, val: val})
	}
	slices.SortFunc(s.options, func(a, b option[T]) int {
		if c := strings.Compare(a.val.Selector(), b.val.Selector()); c != 0 {
			return c
		}
		return strings.Compare(a.id, b.id)
	})
	s.build()

	return s
}

func (s *SelectableStorer[T]) build() {
	colWidth := 1
	for _, v := range s.options {
		l := len(v.val.Selector()) + 7 // Plus 7 for number and spacing (nn. <val>  )
		if l > colWidth {
			colWidth = l
		}
	}

	// Fill columns first, left to right, adding rows past the default when
	// the columns run out of room.
	numVals := len(s.options)
	numCols := max(defaultSelectorRowLength/colWidth, 1)
	numRows := max((numVals+numCols-1)/numCols, defaultSelectorRowCount)

	rows := make([]string, numRows)
	for i, v := range s.options {
		rows[i%numRows] += fmt.Sprintf("%2d. %-*s  ", i+1, colWidth-5, v.val.Selector())
	}

	s.output = nil
	for _, r := range rows {
		if r != "" {
			s.output = append(s.output, strings.TrimRight(r, " "))
		}
	}
}

// Menu renders the numbered options, one row per line.
func (s *SelectableStorer[T]) Menu() string {
	return strings.Join(s.output, "\n")
}

// Select returns the id at position i, counting from 1.
func (s *SelectableStorer[T]) Select(i int) (string, bool) {
	if i < 1 || i > len(s.options) {
		return "", false
	}
	return s.options[i-1].id, true
}

func (s *SelectableStorer[T]) Len() int {
	return len(s.options)
}
