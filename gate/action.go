package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView     Action = "view"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionSell     Action = "sell"
	ActionTransfer Action = "move"
	ActionExport   Action = "export"
)

// Resource types guarded by the shop gate.
const (
	ResourceStock    = "stock"
	ResourceSale     = "sale"
	ResourceTransfer = "transfer"
	ResourceHistory  = "history"
)
