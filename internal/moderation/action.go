package moderation

import "time"

// Kind names a moderation action.
type Kind string

const (
	KindKick          Kind = "kick"
	KindBan           Kind = "ban"
	KindUnban         Kind = "unban"
	KindTimeout       Kind = "timeout"
	KindRemoveTimeout Kind = "untimeout"
	KindWarn          Kind = "warn"
	KindListWarnings  Kind = "warnings"
	KindRemoveWarning Kind = "removewarn"
	KindClearWarnings Kind = "clearwarns"
	KindAddRole       Kind = "roleadd"
	KindRemoveRole    Kind = "roleremove"
)

// Action is one of the supported moderation requests. The set is closed.
type Action interface {
	Kind() Kind
	action()
}

type Kick struct {
	TargetID string
	Reason   string
}

type Ban struct {
	TargetID          string
	Reason            string
	DeleteMessageDays int
}

// Unban operates on a raw user ID since the user is no longer a member.
type Unban struct {
	UserID string
	Reason string
}

// Timeout carries the duration as typed by the moderator, e.g. "10m".
type Timeout struct {
	TargetID string
	Duration string
	Reason   string
}

type RemoveTimeout struct {
	TargetID string
	Reason   string
}

type Warn struct {
	TargetID string
	Reason   string
}

type ListWarnings struct {
	TargetID string
}

type RemoveWarning struct {
	WarningID string
}

type ClearWarnings struct {
	TargetID string
}

type AddRole struct {
	TargetID string
	RoleID   string
}

type RemoveRole struct {
	TargetID string
	RoleID   string
}

func (Kick) Kind() Kind          { return KindKick }
func (Ban) Kind() Kind           { return KindBan }
func (Unban) Kind() Kind         { return KindUnban }
func (Timeout) Kind() Kind       { return KindTimeout }
func (RemoveTimeout) Kind() Kind { return KindRemoveTimeout }
func (Warn) Kind() Kind          { return KindWarn }
func (ListWarnings) Kind() Kind  { return KindListWarnings }
func (RemoveWarning) Kind() Kind { return KindRemoveWarning }
func (ClearWarnings) Kind() Kind { return KindClearWarnings }
func (AddRole) Kind() Kind       { return KindAddRole }
func (RemoveRole) Kind() Kind    { return KindRemoveRole }

func (Kick) action()          {}
func (Ban) action()           {}
func (Unban) action()         {}
func (Timeout) action()       {}
func (RemoveTimeout) action() {}
func (Warn) action()          {}
func (ListWarnings) action()  {}
func (RemoveWarning) action() {}
func (ClearWarnings) action() {}
func (AddRole) action()       {}
func (RemoveRole) action()    {}

// Style is how an action is presented in logs and replies.
type Style struct {
	Name  string
	Emoji string
	Color int
}

var styles = map[Kind]Style{
	KindBan:           {Name: "Ban", Emoji: "🔨", Color: 0xff0000},
	KindKick:          {Name: "Kick", Emoji: "👢", Color: 0xff9900},
	KindTimeout:       {Name: "Timeout", Emoji: "⏰", Color: 0xffcc00},
	KindWarn:          {Name: "Warning", Emoji: "⚠️", Color: 0xffff00},
	KindUnban:         {Name: "Unban", Emoji: "🔓", Color: 0x00ff00},
	KindRemoveTimeout: {Name: "Remove Timeout", Emoji: "⏱️", Color: 0x00ffcc},
	KindListWarnings:  {Name: "Warning History", Emoji: "⚠️", Color: 0xffcc00},
	KindRemoveWarning: {Name: "Remove Warning", Emoji: "🧹", Color: 0x99ccff},
	KindClearWarnings: {Name: "Clear Warnings", Emoji: "🧹", Color: 0x99ccff},
	KindAddRole:       {Name: "Role Added", Emoji: "🏷️", Color: 0x5865f2},
	KindRemoveRole:    {Name: "Role Removed", Emoji: "🏷️", Color: 0x99aab5},
}

// StyleFor returns the presentation style of k.
func StyleFor(k Kind) Style {
	if s, ok := styles[k]; ok {
		return s
	}
	return Style{Name: string(k), Emoji: "🛡️", Color: 0x0099ff}
}

// Subject identifies a user in results and log entries.
type Subject struct {
	ID        string
	Tag       string
	AvatarURL string
}

// Label renders "tag (id)".
func (s Subject) Label() string {
	if s.Tag == "" {
		return s.ID
	}
	return s.Tag + " (" + s.ID + ")"
}

// Outcome is the terminal state of a dispatched action.
type Outcome int

const (
	Succeeded Outcome = iota + 1
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stage is how far an invocation progressed.
type Stage int

const (
	StageReceived Stage = iota
	StageGuarded
	StageExecuting
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageGuarded:
		return "guarded"
	case StageExecuting:
		return "executing"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Request is one moderation invocation.
type Request struct {
	GuildID     string
	ModeratorID string
	Action      Action
}

// Result is what the presentation layer receives. On failure Stage records
// where the invocation stopped.
type Result struct {
	Outcome Outcome
	Stage   Stage
	Kind    Kind
	Message string

	Moderator         Subject
	Target            Subject
	Reason            string
	Duration          time.Duration
	Until             time.Time
	DeleteMessageDays int
	Role              Role

	WarningID    string
	WarningCount int
	Warnings     []Warning
	Removed      int

	// Delivery tracks the best-effort log fan-out. Nil when nothing was logged.
	Delivery *Delivery
}

// OK reports whether the action succeeded.
func (r Result) OK() bool { return r.Outcome == Succeeded }
