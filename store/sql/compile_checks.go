package sqlstore

import (
	"github.com/developersupreme/supreme-ai-sdk-sub001/core"
)

var (
	_ core.AuthStore    = (*AuthSlotStore)(nil)
	_ core.LedgerLog    = (*LedgerEventStore)(nil)
	_ core.PersonaStore = (*PersonaStore)(nil)
	_ core.PersonaStore = (*CachedPersonaStore)(nil)
)
