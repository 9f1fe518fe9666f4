package realtime

import (
	"slices"
	"sync"
)

// Handle is the live connection a presence entry points at.
type Handle interface {
	Close(code int, reason string)
}

// Registry tracks which (conversation, user) pairs hold an open connection in
// this process. It is created by the caller and shared by every session.
type Registry struct {
	mu    sync.RWMutex
	rooms map[int64]map[int64]Handle // conversationID -> userID -> handle
	size  int
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[int64]map[int64]Handle)}
}

// Register marks userID as present in conversationID. A second registration for
// the same pair replaces the stored handle (the newest connection wins).
func (r *Registry) Register(conversationID, userID int64, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[conversationID]
	if room == nil {
		room = make(map[int64]Handle)
		r.rooms[conversationID] = room
	}
	if _, ok := room[userID]; !ok {
		r.size++
	}
	room[userID] = h
}

// Unregister removes the entry for the pair. When h is non-nil the entry is only
// removed if it still points at h, so a superseded session leaving does not
// evict the connection that replaced it. Missing entries are ignored.
func (r *Registry) Unregister(conversationID, userID int64, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[conversationID]
	current, ok := room[userID]
	if !ok {
		return
	}
	if h != nil && current != h {
		return
	}
	delete(room, userID)
	r.size--
	if len(room) == 0 {
		delete(r.rooms, conversationID)
	}
}

// ListOthers returns a sorted snapshot of the users present in conversationID,
// excluding excludeUserID. The result may be stale as soon as it is returned.
func (r *Registry) ListOthers(conversationID, excludeUserID int64) []int64 {
	r.mu.RLock()
	room := r.rooms[conversationID]
	ids := make([]int64, 0, len(room))
	for userID := range room {
		if userID != excludeUserID {
			ids = append(ids, userID)
		}
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// IsPresent reports whether userID holds an entry in conversationID.
func (r *Registry) IsPresent(conversationID, userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[conversationID][userID]
	return ok
}

// Len returns the number of live entries across all conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// CloseConversation closes the handles registered in conversationID and drops
// the room. Sessions that unregister afterwards find nothing to remove.
func (r *Registry) CloseConversation(conversationID int64, code int, reason string) int {
	r.mu.Lock()
	room := r.rooms[conversationID]
	delete(r.rooms, conversationID)
	r.size -= len(room)
	handles := make([]Handle, 0, len(room))
	for _, h := range room {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		h.Close(code, reason)
	}
	return len(handles)
}

// Close closes every registered handle and clears the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	handles := make([]Handle, 0, r.size)
	for _, room := range r.rooms {
		for _, h := range room {
			handles = append(handles, h)
		}
	}
	r.rooms = make(map[int64]map[int64]Handle)
	r.size = 0
	r.mu.Unlock()

	for _, h := range handles {
		h.Close(CloseGoingAway, "server shutdown")
	}
}
