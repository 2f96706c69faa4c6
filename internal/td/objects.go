package td

// Ok is the empty success response.
type Ok struct{}

func (*Ok) ObjectType() string { return "ok" }

// Text carries a plain string response, e.g. the join response payload
// returned by a group call join request.
type Text struct {
	Text string
}

func (*Text) ObjectType() string { return "text" }

// ChatType discriminates the flavor of a chat record.
type ChatType interface {
	isChatType()
}

type ChatTypePrivate struct {
	UserID int64
}

type ChatTypeBasicGroup struct {
	BasicGroupID int64
}

// ChatTypeSupergroup identifies a supergroup or channel. The supergroup id
// shares the chat identifier space, so it keys the same records GetChat
// accepts.
type ChatTypeSupergroup struct {
	SupergroupID int64
	IsChannel    bool
}

type ChatTypeSecret struct {
	SecretChatID int64
}

func (*ChatTypePrivate) isChatType()    {}
func (*ChatTypeBasicGroup) isChatType() {}
func (*ChatTypeSupergroup) isChatType() {}
func (*ChatTypeSecret) isChatType()     {}

// ChatPhotoInfo is an opaque reference to a chat or profile photo.
type ChatPhotoInfo struct {
	RemoteFileID string
}

// VideoChat describes the video chat attached to a chat record. A nil
// pointer or zero GroupCallID means no video chat is attached.
type VideoChat struct {
	GroupCallID int32
}

// Chat is the basic chat record.
type Chat struct {
	ID        int64
	Type      ChatType
	Title     string
	Photo     *ChatPhotoInfo
	VideoChat *VideoChat
}

func (*Chat) ObjectType() string { return "chat" }

// Supergroup is the basic supergroup record.
type Supergroup struct {
	ID          int64
	Username    string
	MemberCount int
	IsChannel   bool
}

func (*Supergroup) ObjectType() string { return "supergroup" }

// SupergroupFullInfo is the extended supergroup record.
type SupergroupFullInfo struct {
	Description string
	MemberCount int
	InviteLink  string
}

func (*SupergroupFullInfo) ObjectType() string { return "supergroupFullInfo" }

// GroupCall is the raw group call record. IsActive is the raw flag as the
// backend reports it; callers must not treat it as the liveness test on its
// own (see the composite predicate applied by the calls package).
type GroupCall struct {
	ID               int32
	Title            string
	ParticipantCount int
	IsActive         bool
	CanBeManaged     bool
	IsJoined         bool
	InviteLink       string
}

func (*GroupCall) ObjectType() string { return "groupCall" }

// MessageSender is the tagged union identifying who a participant is.
type MessageSender interface {
	isMessageSender()
}

type MessageSenderUser struct {
	UserID int64
}

type MessageSenderChat struct {
	ChatID int64
}

func (*MessageSenderUser) isMessageSender() {}
func (*MessageSenderChat) isMessageSender() {}

// GroupCallParticipant is the raw per-participant record. An empty Order
// means the backend has removed the participant from the call's participant
// list.
type GroupCallParticipant struct {
	ParticipantID   MessageSender
	Order           string
	IsMuted         bool
	IsSpeaking      bool
	HasVideo        bool
	IsScreenSharing bool
	JoinedDate      int64
}

func (*GroupCallParticipant) ObjectType() string { return "groupCallParticipant" }

// User is the basic user record.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	ProfilePhoto *ChatPhotoInfo
}

func (*User) ObjectType() string { return "user" }

// AuthorizationState is the closed set of login progress states.
type AuthorizationState interface {
	Object
	isAuthorizationState()
}

type AuthorizationStateWaitPhoneNumber struct{}

type AuthorizationStateWaitCode struct{}

type AuthorizationStateWaitPassword struct{}

type AuthorizationStateReady struct{}

type AuthorizationStateClosed struct{}

func (*AuthorizationStateWaitPhoneNumber) ObjectType() string {
	return "authorizationStateWaitPhoneNumber"
}
func (*AuthorizationStateWaitCode) ObjectType() string     { return "authorizationStateWaitCode" }
func (*AuthorizationStateWaitPassword) ObjectType() string { return "authorizationStateWaitPassword" }
func (*AuthorizationStateReady) ObjectType() string        { return "authorizationStateReady" }
func (*AuthorizationStateClosed) ObjectType() string       { return "authorizationStateClosed" }

func (*AuthorizationStateWaitPhoneNumber) isAuthorizationState() {}
func (*AuthorizationStateWaitCode) isAuthorizationState()        {}
func (*AuthorizationStateWaitPassword) isAuthorizationState()    {}
func (*AuthorizationStateReady) isAuthorizationState()           {}
func (*AuthorizationStateClosed) isAuthorizationState()          {}
