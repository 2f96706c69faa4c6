// Package loopback is an in-process backend for development and tests. It
// answers the same requests a real client would, from seeded state, and
// lets callers inject updates into the handler with Emit.
package loopback

import (
	"errors"
	"fmt"
	"sync"

	"tglive/internal/td"
)

// Backend implements td.Client over in-memory state. All request handling
// is synchronous: callbacks run before Send returns, which keeps tests
// deterministic.
type Backend struct {
	mu        sync.Mutex
	handler   td.Handler
	closed    bool
	authState td.AuthorizationState

	usernames map[string]int64 // username -> chat id
	chats     map[int64]*td.Chat
	supers    map[int64]*td.Supergroup
	fullInfos map[int64]*td.SupergroupFullInfo
	calls     map[int32]*td.GroupCall
	users     map[int64]*td.User
	joined    map[int32]bool
}

func New() *Backend {
	return &Backend{
		authState: &td.AuthorizationStateReady{},
		usernames: make(map[string]int64),
		chats:     make(map[int64]*td.Chat),
		supers:    make(map[int64]*td.Supergroup),
		fullInfos: make(map[int64]*td.SupergroupFullInfo),
		calls:     make(map[int32]*td.GroupCall),
		users:     make(map[int64]*td.User),
		joined:    make(map[int32]bool),
	}
}

// Dial satisfies td.Dialer.
func (b *Backend) Dial(handler td.Handler) (td.Client, error) {
	b.mu.Lock()
	b.handler = handler
	b.mu.Unlock()
	return b, nil
}

// Emit pushes an update through the registered handler, as the real client
// would from its receive loop.
func (b *Backend) Emit(upd td.Update) {
	b.mu.Lock()
	h := b.handler
	b.mu.Unlock()
	if h != nil {
		h(upd)
	}
}

// SetAuthState replaces the reported authorization state without emitting
// an update. Use Emit with td.UpdateAuthorizationState to drive transitions.
func (b *Backend) SetAuthState(state td.AuthorizationState) {
	b.mu.Lock()
	b.authState = state
	b.mu.Unlock()
}

// AddChannel seeds a public channel with its supergroup data and optional
// active call.
func (b *Backend) AddChannel(chatID int64, username, title, description string, memberCount int, callID int32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	chat := &td.Chat{
		ID:    chatID,
		Title: title,
		Type:  &td.ChatTypeSupergroup{SupergroupID: chatID, IsChannel: true},
	}
	if callID != 0 {
		chat.VideoChat = &td.VideoChat{GroupCallID: callID}
	}
	b.chats[chatID] = chat
	b.usernames[username] = chatID
	b.supers[chatID] = &td.Supergroup{ID: chatID, Username: username, MemberCount: memberCount, IsChannel: true}
	b.fullInfos[chatID] = &td.SupergroupFullInfo{Description: description, MemberCount: memberCount}
}

// AddGroup seeds a supergroup that is not a broadcast channel.
func (b *Backend) AddGroup(chatID int64, username, title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats[chatID] = &td.Chat{
		ID:    chatID,
		Title: title,
		Type:  &td.ChatTypeSupergroup{SupergroupID: chatID, IsChannel: false},
	}
	b.usernames[username] = chatID
	b.supers[chatID] = &td.Supergroup{ID: chatID, Username: username, IsChannel: false}
}

// AddCall seeds a group call.
func (b *Backend) AddCall(call *td.GroupCall) {
	b.mu.Lock()
	b.calls[call.ID] = call
	b.mu.Unlock()
}

// AddUser seeds a user for participant resolution.
func (b *Backend) AddUser(user *td.User) {
	b.mu.Lock()
	b.users[user.ID] = user
	b.mu.Unlock()
}

// Joined reports whether a join for the call was accepted.
func (b *Backend) Joined(callID int32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.joined[callID]
}

func (b *Backend) Send(req td.Request, onResult func(td.Object), onError func(*td.Error)) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errors.New("loopback: backend is closed")
	}
	obj, tdErr := b.dispatch(req)
	b.mu.Unlock()

	if tdErr != nil {
		if onError != nil {
			onError(tdErr)
		}
		return nil
	}
	if onResult != nil {
		onResult(obj)
	}
	return nil
}

func (b *Backend) Execute(req td.Request) (td.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, errors.New("loopback: backend is closed")
	}
	obj, tdErr := b.dispatch(req)
	if tdErr != nil {
		return nil, tdErr
	}
	return obj, nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.handler = nil
	b.mu.Unlock()
	return nil
}

// dispatch is called with b.mu held.
func (b *Backend) dispatch(req td.Request) (td.Object, *td.Error) {
	switch r := req.(type) {
	case *td.GetAuthorizationState:
		return b.authState, nil
	case *td.SearchPublicChat:
		chatID, ok := b.usernames[r.Username]
		if !ok {
			return nil, &td.Error{Code: 400, Message: "USERNAME_NOT_OCCUPIED"}
		}
		return b.chats[chatID], nil
	case *td.GetChat:
		chat, ok := b.chats[r.ChatID]
		if !ok {
			return nil, &td.Error{Code: 404, Message: "CHAT_NOT_FOUND"}
		}
		return chat, nil
	case *td.GetSupergroup:
		sg, ok := b.supers[r.SupergroupID]
		if !ok {
			return nil, &td.Error{Code: 400, Message: "SUPERGROUP_NOT_FOUND"}
		}
		return sg, nil
	case *td.GetSupergroupFullInfo:
		full, ok := b.fullInfos[r.SupergroupID]
		if !ok {
			return nil, &td.Error{Code: 400, Message: "SUPERGROUP_NOT_FOUND"}
		}
		return full, nil
	case *td.GetGroupCall:
		call, ok := b.calls[r.GroupCallID]
		if !ok {
			return nil, &td.Error{Code: 400, Message: "GROUPCALL_INVALID"}
		}
		return call, nil
	case *td.GetUser:
		user, ok := b.users[r.UserID]
		if !ok {
			return nil, &td.Error{Code: 404, Message: "USER_NOT_FOUND"}
		}
		return user, nil
	case *td.JoinGroupCall:
		return b.join(r.GroupCallID, r.Payload)
	case *td.JoinVideoChatByInviteLink:
		for _, call := range b.calls {
			if call.InviteLink == r.InviteLink {
				return b.join(call.ID, r.Payload)
			}
		}
		return nil, &td.Error{Code: 400, Message: "INVITE_HASH_INVALID"}
	case *td.LeaveGroupCall:
		if !b.joined[r.GroupCallID] {
			return nil, &td.Error{Code: 400, Message: "GROUPCALL_NOT_JOINED"}
		}
		delete(b.joined, r.GroupCallID)
		return &td.Ok{}, nil
	default:
		return nil, &td.Error{Code: 400, Message: fmt.Sprintf("UNSUPPORTED_REQUEST_%s", req.RequestType())}
	}
}

func (b *Backend) join(callID int32, payload string) (td.Object, *td.Error) {
	call, ok := b.calls[callID]
	if !ok {
		return nil, &td.Error{Code: 400, Message: "GROUPCALL_INVALID"}
	}
	if !call.IsActive {
		return nil, &td.Error{Code: 400, Message: "GROUPCALL_INVALID"}
	}
	if payload == "" {
		return nil, &td.Error{Code: 400, Message: "GROUPCALL_SSRC_DUPLICATE_MUCH"}
	}
	if b.joined[callID] {
		return nil, &td.Error{Code: 400, Message: "GROUPCALL_ALREADY_JOINED"}
	}
	b.joined[callID] = true
	call.IsJoined = true
	return &td.Text{Text: "{}"}, nil
}
