// Package editor implements the editable-record form controller used by each
// species card.
//
// An Editor starts in Viewing. The author can move it to Editing, where a
// draft of the form is held against a baseline of the last saved values.
// Cancelling and deleting both pass through an explicit confirmation state
// that must be resolved with a yes or no answer.
//
// Editors are cheap, single-use values. The HTTP layer builds one per request
// and uses Resume to restore the state carried by the request.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nfrund/biodex/internal/domain"
)

// State is the editor's position in its state machine.
type State int

const (
	Viewing State = iota
	Editing
	ConfirmingCancel
	ConfirmingDelete
	Deleted
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case ConfirmingCancel:
		return "confirming-cancel"
	case ConfirmingDelete:
		return "confirming-delete"
	case Deleted:
		return "deleted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrInvalidTransition is returned when an action is not available in the
// current state.
var ErrInvalidTransition = errors.New("action not available in the current state")

// Store is the subset of the species repository the editor writes to.
type Store interface {
	Update(ctx context.Context, id int64, in domain.SpeciesInput) (*domain.Species, error)
	Delete(ctx context.Context, id int64) error
}

// Editor drives one record's view/edit lifecycle.
type Editor struct {
	record   domain.Species
	viewerID string
	state    State
	baseline domain.SpeciesForm
	draft    domain.SpeciesForm
	errs     domain.FieldErrors

	store    Store
	notifier domain.Notifier
	reload   func()
}

// New returns an editor in the Viewing state for record, as seen by viewerID.
// reload is invoked after every successful mutation and may be nil.
func New(record domain.Species, viewerID string, store Store, notifier domain.Notifier, reload func()) *Editor {
	baseline := record.Input().Form()
	if notifier == nil {
		notifier = domain.NotifierFunc(func(domain.Notification) {})
	}
	if reload == nil {
		reload = func() {}
	}
	return &Editor{
		record:   record,
		viewerID: viewerID,
		state:    Viewing,
		baseline: baseline,
		draft:    baseline,
		store:    store,
		notifier: notifier,
		reload:   reload,
	}
}

// State returns the current state.
func (e *Editor) State() State { return e.state }

// Record returns the record as last saved.
func (e *Editor) Record() domain.Species { return e.record }

// Baseline returns the last saved form values that a cancel reverts to.
func (e *Editor) Baseline() domain.SpeciesForm { return e.baseline }

// Draft returns the form values currently being edited.
func (e *Editor) Draft() domain.SpeciesForm { return e.draft }

// Errors returns field errors from the last rejected submit.
func (e *Editor) Errors() domain.FieldErrors { return e.errs }

// CanEdit reports whether the viewer may edit or delete the record.
func (e *Editor) CanEdit() bool { return e.record.IsAuthor(e.viewerID) }

// BeginEdit moves from Viewing to Editing.
func (e *Editor) BeginEdit() error {
	if !e.CanEdit() {
		return domain.ErrNotAuthor
	}
	if e.state != Viewing {
		return e.invalid("edit")
	}
	e.draft = e.baseline
	e.errs = nil
	e.state = Editing
	return nil
}

// Resume restores a state carried across requests along with its draft.
// Only states reachable by the author can be resumed.
func (e *Editor) Resume(state State, draft domain.SpeciesForm) error {
	switch state {
	case Viewing:
		e.state = Viewing
		e.draft = e.baseline
		return nil
	case Editing, ConfirmingCancel, ConfirmingDelete:
	default:
		return e.invalid("resume")
	}
	if !e.CanEdit() {
		return domain.ErrNotAuthor
	}
	e.state = state
	if state == ConfirmingDelete {
		e.draft = e.baseline
	} else {
		e.draft = draft
	}
	return nil
}

// Submit validates form and, when valid, sends it as an update. Validation
// failures and store errors leave the editor in Editing with the draft intact.
func (e *Editor) Submit(ctx context.Context, form domain.SpeciesForm) error {
	if e.state != Editing {
		return e.invalid("submit")
	}
	if !e.CanEdit() {
		return domain.ErrNotAuthor
	}
	e.draft = form

	in, ferrs := domain.ParseSpeciesForm(form)
	if ferrs != nil {
		e.errs = ferrs
		return ferrs
	}
	e.errs = nil

	updated, err := e.store.Update(ctx, e.record.ID, in)
	if err != nil {
		e.notifier.Notify(domain.Notification{
			Title:       "Something went wrong.",
			Description: err.Error(),
			Severity:    domain.SeverityError,
		})
		return fmt.Errorf("update species %d: %w", e.record.ID, err)
	}

	if updated != nil {
		e.record = *updated
	} else {
		e.record.Apply(in)
	}
	e.baseline = in.Form()
	e.draft = e.baseline
	e.state = Viewing
	e.notifier.Notify(domain.Notification{
		Title:       "Species updated.",
		Description: fmt.Sprintf("Saved changes to %s.", e.record.ScientificName),
		Severity:    domain.SeveritySuccess,
	})
	e.reload()
	return nil
}

// RequestCancel asks for confirmation before discarding the draft.
func (e *Editor) RequestCancel(draft domain.SpeciesForm) error {
	if e.state != Editing {
		return e.invalid("cancel")
	}
	e.draft = draft
	e.state = ConfirmingCancel
	return nil
}

// ResolveCancel answers the cancel prompt. A yes restores the baseline and
// returns to Viewing. A no returns to Editing with the draft unchanged.
func (e *Editor) ResolveCancel(confirmed bool) error {
	if e.state != ConfirmingCancel {
		return e.invalid("resolve cancel")
	}
	if !confirmed {
		e.state = Editing
		return nil
	}
	e.draft = e.baseline
	e.errs = nil
	e.state = Viewing
	return nil
}

// RequestDelete asks for confirmation before deleting the record.
func (e *Editor) RequestDelete() error {
	if !e.CanEdit() {
		return domain.ErrNotAuthor
	}
	if e.state != Viewing {
		return e.invalid("delete")
	}
	e.state = ConfirmingDelete
	return nil
}

// ResolveDelete answers the delete prompt. On a confirmed, successful delete
// the editor becomes Deleted. Any failure returns it to Viewing.
func (e *Editor) ResolveDelete(ctx context.Context, confirmed bool) error {
	if e.state != ConfirmingDelete {
		return e.invalid("resolve delete")
	}
	if !confirmed {
		e.state = Viewing
		return nil
	}
	if !e.CanEdit() {
		e.state = Viewing
		return domain.ErrNotAuthor
	}

	if err := e.store.Delete(ctx, e.record.ID); err != nil {
		e.state = Viewing
		e.notifier.Notify(domain.Notification{
			Title:       "Could not delete species.",
			Description: err.Error(),
			Severity:    domain.SeverityError,
		})
		return fmt.Errorf("delete species %d: %w", e.record.ID, err)
	}

	e.state = Deleted
	e.notifier.Notify(domain.Notification{
		Title:       "Species deleted.",
		Description: fmt.Sprintf("%s was removed.", e.record.ScientificName),
		Severity:    domain.SeveritySuccess,
	})
	e.reload()
	return nil
}

func (e *Editor) invalid(action string) error {
	return fmt.Errorf("%s while %s: %w", action, e.state, ErrInvalidTransition)
}
