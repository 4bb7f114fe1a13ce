package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jask/sketchbook/internal/catalog"
)

// ErrNoSelection is the user error for commands that need a selected object.
var ErrNoSelection = errors.New("no object selected")

// Actor is the sole owner of the catalog store. It consumes the inbound
// queue one command at a time, so every check-then-mutate sequence runs
// without interleaving. Besides the store it holds only the selection cursor
// and the path of the open file.
type Actor struct {
	ctx      context.Context
	store    *catalog.Store
	openFile string
	cursor   int64 // 0 = nothing selected
	queue    *Queue
	notify   Notifier
	log      *slog.Logger
}

func New(ctx context.Context, store *catalog.Store, queue *Queue, notify Notifier, log *slog.Logger) *Actor {
	return &Actor{
		ctx:    ctx,
		store:  store,
		queue:  queue,
		notify: notify,
		log:    log,
	}
}

// Run blocks on the inbound queue until it is closed and drained, then
// releases the store. Command failures are logged and reported; none of
// them end the loop.
func (a *Actor) Run() {
	for cmd := range a.queue.Out() {
		a.handle(cmd)
	}
	a.log.Debug("actor loop ended", "open_file", a.openFile)
	_ = a.store.Close()
}

func (a *Actor) handle(cmd Command) {
	switch c := cmd.(type) {
	case Open:
		a.openCatalog(c.Path)
	case SaveAs:
		a.saveAs(c.Path)
	case NewItem:
		a.newItem()
	case StoreCode:
		a.updateSelected("store code", catalog.FieldSource, c.Source)
	case SelectByName:
		a.selectByName(c.Name)
	case SelectItem:
		a.selectItem(c.ID)
	case SetDescription:
		a.updateSelected("set description", catalog.FieldDescription, c.Text)
	case SetName:
		a.updateSelected("rename", catalog.FieldName, c.Text)
	default:
		a.log.Warn("unknown command", "type", fmt.Sprintf("%T", cmd))
	}
}

// fail logs a command failure and surfaces it to the presentation layer.
func (a *Actor) fail(op string, err error) {
	a.log.Warn("command failed", "op", op, "err", err)
	a.notify.Notify(OpFailed{Op: op, Reason: err.Error()})
}

// openCatalog swaps the backing store for the file at path. On any failure
// the previous store and cursor stay as they were. On success the
// presentation layer is rebuilt: ClearItems, the catalog contents in id
// order, then the filename.
func (a *Actor) openCatalog(path string) {
	store, err := catalog.Open(path)
	if err != nil {
		a.fail("open", err)
		return
	}
	objs, err := store.List(a.ctx)
	if err != nil {
		_ = store.Close()
		a.fail("open", err)
		return
	}
	old := a.store
	a.store = store
	a.openFile = path
	a.cursor = 0 // ids from the previous store mean nothing here
	_ = old.Close()

	a.log.Info("opened catalog", "path", path, "objects", len(objs))
	a.notify.Notify(ClearItems{})
	for _, o := range objs {
		a.notify.Notify(ItemCreated{ID: o.ID, Name: o.Name, Description: o.Description})
	}
	a.notify.Notify(FilenameChanged{Path: path})
}

// saveAs copies the live catalog to path, then treats that file as the new
// backing store. Ids survive the verbatim copy, so the cursor is kept.
func (a *Actor) saveAs(path string) {
	if err := a.store.BackupTo(a.ctx, path); err != nil {
		a.fail("save as", err)
		return
	}
	store, err := catalog.Open(path)
	if err != nil {
		a.fail("save as", err)
		return
	}
	old := a.store
	a.store = store
	a.openFile = path
	_ = old.Close()

	a.log.Info("saved catalog", "path", path)
	a.notify.Notify(FilenameChanged{Path: path})
}

func (a *Actor) newItem() {
	names, err := a.store.ListNames(a.ctx)
	if err != nil {
		a.fail("new item", err)
		return
	}
	name := uniqueDefaultName(names)
	id, err := a.store.Insert(a.ctx, name, defaultDescription)
	if err != nil {
		a.fail("new item", err)
		return
	}
	a.notify.Notify(ItemCreated{ID: id, Name: name, Description: defaultDescription})
}

// updateSelected writes one field of the cursor object. With no selection
// the store is untouched and the failure is reported as a user error.
func (a *Actor) updateSelected(op string, field catalog.Field, value string) {
	if a.cursor == 0 {
		a.fail(op, ErrNoSelection)
		return
	}
	if err := a.store.UpdateField(a.ctx, a.cursor, field, value); err != nil {
		a.fail(op, err)
	}
}

func (a *Actor) selectByName(name string) {
	id, err := a.store.FindIDByName(a.ctx, name)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			if names, lerr := a.store.ListNames(a.ctx); lerr == nil {
				if near, dist := closestName(names, name); dist >= 0 && dist <= maxSuggestDistance {
					a.fail("select", fmt.Errorf("%w (did you mean %q?)", err, near))
					return
				}
			}
		}
		a.fail("select", err)
		return
	}
	a.cursor = id
}

// selectItem always answers with SourceLoaded, empty on a failed read, so
// the presentation layer's editor stays consistent with the cursor.
func (a *Actor) selectItem(id int64) {
	a.cursor = id
	src, err := a.store.ReadSource(a.ctx, id)
	if err != nil {
		a.log.Warn("command failed", "op", "select", "err", err)
		a.notify.Notify(SourceLoaded{})
		return
	}
	a.notify.Notify(SourceLoaded{Source: src})
}
