package session

// Commands flow from the presentation layer into the actor's inbound queue;
// notifications flow back out through the Notifier. Notification values are
// delivered verbatim into the Bubble Tea loop, so they double as tea.Msg.

// Command is a requested catalog mutation or query.
type Command interface{ isCommand() }

// Open replaces the backing store with the catalog file at Path.
type Open struct{ Path string }

// SaveAs copies the live catalog to Path and makes that file the backing store.
type SaveAs struct{ Path string }

// NewItem creates an object with a generated unique name.
type NewItem struct{}

// StoreCode writes Source to the selected object.
type StoreCode struct{ Source string }

// SelectByName moves the cursor to the object with the given name.
type SelectByName struct{ Name string }

// SelectItem moves the cursor to ID and loads its source.
type SelectItem struct{ ID int64 }

// SetDescription re-describes the selected object.
type SetDescription struct{ Text string }

// SetName renames the selected object.
type SetName struct{ Text string }

func (Open) isCommand()           {}
func (SaveAs) isCommand()         {}
func (NewItem) isCommand()        {}
func (StoreCode) isCommand()      {}
func (SelectByName) isCommand()   {}
func (SelectItem) isCommand()     {}
func (SetDescription) isCommand() {}
func (SetName) isCommand()        {}

// Notification describes an observable state change, for rendering.
type Notification interface{ isNotification() }

// FilenameChanged reports the new backing file after Open or SaveAs.
type FilenameChanged struct{ Path string }

// ClearItems tells the presentation layer to drop its item rows before the
// opened catalog's contents arrive as ItemCreated notifications.
type ClearItems struct{}

// ItemCreated reports a new (or newly visible) object.
type ItemCreated struct {
	ID          int64
	Name        string
	Description string
}

// SourceLoaded carries the source text of the object the cursor moved to.
type SourceLoaded struct{ Source string }

// OpFailed surfaces a failed command with a short user-facing reason.
type OpFailed struct {
	Op     string
	Reason string
}

func (FilenameChanged) isNotification() {}
func (ClearItems) isNotification()      {}
func (ItemCreated) isNotification()     {}
func (SourceLoaded) isNotification()    {}
func (OpFailed) isNotification()        {}

// Notifier is the outbound delivery path to the presentation layer. Notify
// must be safe to call from the actor's goroutine, must not block on
// rendering, and must preserve call order.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
