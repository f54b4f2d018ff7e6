package client

import (
	"context"
	"errors"
	"sync"

	"musiclib/logger"
	"musiclib/model"
)

var (
	// ErrNoAsset is returned by AddMusic when no asset has been selected.
	ErrNoAsset = errors.New("no audio asset selected")
	// ErrNotEditing is returned by Update when no entry is being edited.
	ErrNotEditing = errors.New("no entry is being edited")
)

// State is the list view's loading state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateListed
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateListed:
		return "listed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ListView holds the music list and the add/edit form.
//
// Actions are sequential round trips. Failures are logged and returned; the
// view itself shows no error feedback and keeps what it last listed.
type ListView struct {
	client *Client

	mu        sync.Mutex
	state     State
	entries   []model.MusicEntry
	title     string
	asset     *Asset
	editingID int64
}

// NewListView creates an idle view backed by c.
func NewListView(c *Client) *ListView {
	return &ListView{client: c, entries: []model.MusicEntry{}}
}

// Mount loads the list.
func (v *ListView) Mount(ctx context.Context) error {
	return v.refresh(ctx)
}

func (v *ListView) refresh(ctx context.Context) error {
	v.setState(StateLoading)

	entries, err := v.client.List(ctx)
	if err != nil {
		logger.Error("failed to list music", logger.ErrorField(err))
		v.setState(StateError)
		return err
	}

	v.mu.Lock()
	v.entries = entries
	v.state = StateListed
	v.mu.Unlock()
	return nil
}

// SetTitle sets the form's title field.
func (v *ListView) SetTitle(title string) {
	v.mu.Lock()
	v.title = title
	v.mu.Unlock()
}

// SelectAsset sets the form's audio asset.
func (v *ListView) SelectAsset(asset Asset) {
	v.mu.Lock()
	v.asset = &asset
	v.mu.Unlock()
}

// AddMusic creates an entry from the form. It sends nothing unless an asset
// has been selected. The form is reset afterwards.
func (v *ListView) AddMusic(ctx context.Context) error {
	title, asset := v.form()
	if asset == nil {
		logger.Warn("add music rejected: no asset selected")
		return ErrNoAsset
	}
	defer v.resetForm()

	entry, err := v.client.Create(ctx, title, *asset)
	if err != nil {
		logger.Error("failed to add music",
			logger.String("filename", asset.Name),
			logger.ErrorField(err))
		return err
	}
	logger.Info("music added", logger.Int64("id", entry.ID))
	return v.refresh(ctx)
}

// Edit makes entry the edit target and copies its title into the form.
// No asset is pre-selected.
func (v *ListView) Edit(entry model.MusicEntry) {
	v.mu.Lock()
	v.editingID = entry.ID
	v.title = entry.Title
	v.asset = nil
	v.mu.Unlock()
}

// Update saves the form against the edit target. The filename is only sent
// when a new asset was selected, so an update without one fails validation
// on the server. The form is reset afterwards; the edit target is cleared
// only on success.
func (v *ListView) Update(ctx context.Context) error {
	v.mu.Lock()
	id := v.editingID
	v.mu.Unlock()
	if id == 0 {
		return ErrNotEditing
	}

	title, asset := v.form()
	defer v.resetForm()

	if _, err := v.client.Update(ctx, id, title, asset); err != nil {
		logger.Error("failed to update music",
			logger.Int64("id", id),
			logger.Bool("newAsset", asset != nil),
			logger.ErrorField(err))
		return err
	}

	v.mu.Lock()
	v.editingID = 0
	v.mu.Unlock()
	logger.Info("music updated", logger.Int64("id", id))
	return v.refresh(ctx)
}

// Delete removes entry id and reloads the list.
func (v *ListView) Delete(ctx context.Context, id int64) error {
	if err := v.client.Delete(ctx, id); err != nil {
		logger.Error("failed to delete music",
			logger.Int64("id", id),
			logger.ErrorField(err))
		return err
	}
	logger.Info("music deleted", logger.Int64("id", id))
	return v.refresh(ctx)
}

// AudioSource returns the playback URL for entry.
func (v *ListView) AudioSource(entry model.MusicEntry) string {
	return v.client.AudioSource(entry)
}

func (v *ListView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Entries returns a copy of the last listed entries.
func (v *ListView) Entries() []model.MusicEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]model.MusicEntry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Editing reports the current edit target.
func (v *ListView) Editing() (int64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editingID, v.editingID != 0
}

func (v *ListView) Title() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.title
}

// HasAsset reports whether an asset is selected.
func (v *ListView) HasAsset() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.asset != nil
}

func (v *ListView) setState(s State) {
	v.mu.Lock()
	v.state = s
	v.mu.Unlock()
}

func (v *ListView) form() (string, *Asset) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.title, v.asset
}

func (v *ListView) resetForm() {
	v.mu.Lock()
	v.title = ""
	v.asset = nil
	v.mu.Unlock()
}
