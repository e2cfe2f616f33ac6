package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/grocerylistapp/grocerylist/internal/domain"
	domainerrors "github.com/grocerylistapp/grocerylist/internal/errors"
	"github.com/grocerylistapp/grocerylist/internal/sse"
	"github.com/grocerylistapp/grocerylist/internal/store"
)

// User-facing sync messages.
const (
	MessageServerDown    = "Server is down!"
	MessageSyncFailed    = "Server is up but the request failed"
	MessageNotLoggedIn   = "Log in to synchronise your list"
	MessageSyncInFlight  = "A sync is already in progress"
	MessagePushSucceeded = "List uploaded"
	MessagePullSucceeded = "List downloaded"
)

// ListRemote is the part of the remote API the sync coordinator needs.
type ListRemote interface {
	IsUp(ctx context.Context) bool
	GetGroceryList(ctx context.Context) (*domain.GroceryList, error)
	SyncGroceryList(ctx context.Context, doc *domain.GroceryList) (*domain.GroceryList, error)
}

// SyncAction names a sync direction.
type SyncAction string

// Sync actions.
const (
	ActionPush SyncAction = "push"
	ActionPull SyncAction = "pull"
)

// SyncState is the lifecycle of one sync action.
type SyncState string

// Sync states. Idle is only ever the state of an action that has not run.
const (
	StateIdle      SyncState = "idle"
	StateInFlight  SyncState = "in_flight"
	StateSucceeded SyncState = "succeeded"
	StateFailed    SyncState = "failed"
)

// SyncReport describes the latest run of an action.
type SyncReport struct {
	Action   SyncAction `json:"action"`
	State    SyncState  `json:"state"`
	Message  string     `json:"message,omitempty"`
	ServerUp *bool      `json:"server_up,omitempty"`
	At       time.Time  `json:"at,omitzero"`
}

// SyncStatus is the coordinator's current view.
type SyncStatus struct {
	Push     SyncReport `json:"push"`
	Pull     SyncReport `json:"pull"`
	ServerUp *bool      `json:"server_up,omitempty"`
}

// SyncService pushes and pulls the grocery list.
// At most one action runs at a time; a second request while one is in flight
// is refused rather than queued.
type SyncService struct {
	list   *ListService
	store  *store.Store
	events store.EventEmitter
	remote ListRemote
	logger *slog.Logger

	mu       sync.Mutex
	reports  map[SyncAction]SyncReport
	serverUp *bool
	now      func() time.Time
}

// NewSyncService creates a new sync service.
func NewSyncService(list *ListService, st *store.Store, events store.EventEmitter, remote ListRemote, logger *slog.Logger) *SyncService {
	return &SyncService{
		list:   list,
		store:  st,
		events: events,
		remote: remote,
		logger: logger,
		reports: map[SyncAction]SyncReport{
			ActionPush: {Action: ActionPush, State: StateIdle},
			ActionPull: {Action: ActionPull, State: StateIdle},
		},
		now: time.Now,
	}
}

// begin moves action to InFlight, refusing if any action already is.
func (s *SyncService) begin(action SyncAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.reports {
		if r.State == StateInFlight {
			return domainerrors.Conflict(MessageSyncInFlight).WithDetails(map[string]string{"in_flight": string(r.Action)})
		}
	}
	s.reports[action] = SyncReport{Action: action, State: StateInFlight, At: s.now()}
	return nil
}

// finish records the outcome of action and returns a copy of the report.
func (s *SyncService) finish(action SyncAction, state SyncState, message string, serverUp *bool) *SyncReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	if serverUp != nil {
		s.serverUp = serverUp
	}
	r := SyncReport{Action: action, State: state, Message: message, ServerUp: serverUp, At: s.now()}
	s.reports[action] = r
	s.events.Emit(sse.NewSyncCompletedEvent(string(action), string(state), message, serverUp))
	return &r
}

// requireSession refuses to sync in local-only mode.
func (s *SyncService) requireSession(ctx context.Context) error {
	_, err := s.store.ReadSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return domainerrors.Unauthorized(MessageNotLoggedIn)
	}
	return err
}

// Push uploads the document with its tombstones. On success the server's
// document replaces the local one and the uploaded tombstones are cleared.
// On failure local state is untouched. The report is always returned; err is
// non-nil when the push did not succeed.
func (s *SyncService) Push(ctx context.Context) (*SyncReport, error) {
	if err := s.requireSession(ctx); err != nil {
		return nil, err
	}
	if err := s.begin(ActionPush); err != nil {
		return nil, err
	}

	payload, err := s.pushPayload(ctx)
	if err != nil {
		return s.finish(ActionPush, StateFailed, err.Error(), nil), err
	}

	s.logger.Info("pushing grocery list",
		"categories", len(payload.Categories),
		"items", len(payload.Items),
		"deleted_categories", len(payload.DeletedCategories),
		"deleted_items", len(payload.DeletedItems),
	)

	reconciled, err := s.remote.SyncGroceryList(ctx, payload)
	if err != nil {
		return s.failRemote(ctx, ActionPush, err)
	}

	if err := s.commitPush(ctx, reconciled, payload); err != nil {
		return s.finish(ActionPush, StateFailed, err.Error(), boolPtr(true)), err
	}

	s.logger.Info("push succeeded", "categories", len(reconciled.Categories), "items", len(reconciled.Items))
	return s.finish(ActionPush, StateSucceeded, MessagePushSucceeded, boolPtr(true)), nil
}

// pushPayload reads the document and tombstones under the writer lock.
func (s *SyncService) pushPayload(ctx context.Context) (*domain.GroceryList, error) {
	s.list.mu.Lock()
	defer s.list.mu.Unlock()

	doc, err := s.list.load(ctx)
	if err != nil {
		return nil, err
	}
	if doc.DeletedCategories, err = s.store.ReadDeletedCategories(ctx); err != nil {
		return nil, err
	}
	if doc.DeletedItems, err = s.store.ReadDeletedItems(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// commitPush adopts the reconciled document. Tombstones recorded while the
// request was in flight were not uploaded and are kept for the next push.
func (s *SyncService) commitPush(ctx context.Context, reconciled, sent *domain.GroceryList) error {
	s.list.mu.Lock()
	defer s.list.mu.Unlock()

	deletedCategories, err := s.store.ReadDeletedCategories(ctx)
	if err != nil {
		return err
	}
	deletedItems, err := s.store.ReadDeletedItems(ctx)
	if err != nil {
		return err
	}

	deletedCategories = slices.DeleteFunc(deletedCategories, func(c domain.Category) bool {
		return slices.ContainsFunc(sent.DeletedCategories, func(o domain.Category) bool { return o.CategoryID == c.CategoryID })
	})
	deletedItems = slices.DeleteFunc(deletedItems, func(it domain.Item) bool {
		return slices.ContainsFunc(sent.DeletedItems, func(o domain.Item) bool { return o.ItemID == it.ItemID })
	})

	if len(deletedCategories) == 0 && len(deletedItems) == 0 {
		err = s.store.CommitSync(ctx, reconciled)
	} else {
		s.logger.Info("keeping tombstones recorded during push",
			"deleted_categories", len(deletedCategories),
			"deleted_items", len(deletedItems),
		)
		err = s.store.CommitDeletion(ctx, reconciled, deletedCategories, deletedItems)
	}
	if err != nil {
		return err
	}
	s.list.changed("push", reconciled)
	return nil
}

// Pull replaces the local document with the server's. Tombstones are left
// alone. On failure the local document is untouched.
func (s *SyncService) Pull(ctx context.Context) (*SyncReport, error) {
	if err := s.requireSession(ctx); err != nil {
		return nil, err
	}
	if err := s.begin(ActionPull); err != nil {
		return nil, err
	}

	doc, err := s.remote.GetGroceryList(ctx)
	if err != nil {
		return s.failRemote(ctx, ActionPull, err)
	}

	s.list.mu.Lock()
	err = s.store.WriteDocument(ctx, doc)
	if err == nil {
		s.list.changed("pull", doc)
	}
	s.list.mu.Unlock()
	if err != nil {
		return s.finish(ActionPull, StateFailed, err.Error(), boolPtr(true)), err
	}

	s.logger.Info("pull succeeded", "categories", len(doc.Categories), "items", len(doc.Items))
	return s.finish(ActionPull, StateSucceeded, MessagePullSucceeded, boolPtr(true)), nil
}

// failRemote records a failed remote call. Transport failures trigger exactly
// one liveness probe so the report can tell "server down" from "request
// failed"; errors the server answered with carry its message. Anything else
// failed locally and says nothing about the server.
func (s *SyncService) failRemote(ctx context.Context, action SyncAction, err error) (*SyncReport, error) {
	switch {
	case errors.Is(err, domainerrors.ErrNetwork):
		up := s.remote.IsUp(context.WithoutCancel(ctx))
		message := MessageServerDown
		if up {
			message = MessageSyncFailed
		}
		s.logger.Warn("sync request failed", "action", action, "server_up", up, "error", err)
		return s.finish(action, StateFailed, message, &up), domainerrors.Network(err, message)

	case errors.Is(err, domainerrors.ErrRemote), errors.Is(err, domainerrors.ErrUnauthorized):
		s.logger.Warn("sync rejected by server", "action", action, "error", err)
		return s.finish(action, StateFailed, messageOf(err), boolPtr(true)), err

	default:
		s.logger.Error("sync failed locally", "action", action, "error", err)
		return s.finish(action, StateFailed, messageOf(err), nil), err
	}
}

// Status returns the latest report for each action.
func (s *SyncService) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SyncStatus{
		Push:     s.reports[ActionPush],
		Pull:     s.reports[ActionPull],
		ServerUp: s.serverUp,
	}
}

// CheckServer probes the server and records the answer.
func (s *SyncService) CheckServer(ctx context.Context) bool {
	up := s.remote.IsUp(ctx)

	s.mu.Lock()
	s.serverUp = &up
	s.mu.Unlock()

	return up
}

func messageOf(err error) string {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

func boolPtr(b bool) *bool { return &b }
