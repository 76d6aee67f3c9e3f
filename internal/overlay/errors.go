package overlay

import "errors"

var (
	ErrHostRefused     = errors.New("host refused the request")
	ErrNotPlayerSlot   = errors.New("only items in the player inventory can be used")
	ErrNotUsable       = errors.New("item cannot be used")
	ErrBroken          = errors.New("item is broken")
	ErrInUse           = errors.New("another item is being used")
	ErrNotShop         = errors.New("secondary inventory is not a shop")
	ErrCannotGive      = errors.New("item cannot be given")
	ErrNoPendingGive   = errors.New("no item waiting to be given")
	ErrUnknownPlayer   = errors.New("player is not nearby")
	ErrNoBench         = errors.New("no crafting bench open")
	ErrUnknownRecipe   = errors.New("unknown recipe")
	ErrCrafting        = errors.New("already crafting")
	ErrNotCrafting     = errors.New("nothing is being crafted")
	ErrOnCooldown      = errors.New("recipe is on cooldown")
	ErrMissingReagents = errors.New("missing reagents")
	ErrOriginChanged   = errors.New("held stack changed before it was dropped")
)
