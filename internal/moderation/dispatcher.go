package moderation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/logger"
)

const (
	// MaxTimeout is the longest timeout Discord accepts.
	MaxTimeout = 28 * 24 * time.Hour

	DefaultReason = "No reason provided"
)

var userIDPattern = regexp.MustCompile(`^\d{17,20}$`)

// Dispatcher runs moderation actions: it resolves the participants, applies
// the guard, performs the mutation and reports the result.
type Dispatcher struct {
	platform Platform
	warnings *WarningStore
	modlog   *ModLogger
	now      func() time.Time
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherClock overrides the time source used for timeouts.
func WithDispatcherClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher creates a Dispatcher. modlog may be nil.
func NewDispatcher(p Platform, warnings *WarningStore, modlog *ModLogger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		platform: p,
		warnings: warnings,
		modlog:   modlog,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Warnings exposes the store the dispatcher writes to.
func (d *Dispatcher) Warnings() *WarningStore { return d.warnings }

// invocation is the per-request working state.
type invocation struct {
	req       Request
	res       Result
	moderator Member
	agent     Member
	ownerID   string
}

func (inv *invocation) fail(msg string) Result {
	inv.res.Outcome = Failed
	inv.res.Message = msg
	return inv.res
}

func (inv *invocation) succeed(msg string) Result {
	inv.res.Outcome = Succeeded
	inv.res.Stage = StageDone
	inv.res.Message = msg
	return inv.res
}

// auditReason is the reason recorded in the guild's audit log.
func (inv *invocation) auditReason() string {
	return fmt.Sprintf("%s - By %s", inv.res.Reason, inv.moderator.Tag)
}

func reasonOrDefault(r string) string {
	if r = strings.TrimSpace(r); r == "" {
		return DefaultReason
	}
	return r
}

// Dispatch executes req. It never panics and never returns an error: every
// failure is reported through the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (res Result) {
	inv := &invocation{req: req, res: Result{Stage: StageReceived}}
	if req.Action != nil {
		inv.res.Kind = req.Action.Kind()
	}

	defer func() {
		if r := recover(); r != nil {
			apperrors.Capture("Moderation", r)
			res = inv.fail("An unexpected error occurred while executing this command.")
		}
		if res.Outcome == Failed {
			logger.Debug(fmt.Sprintf("%s failed at %s: %s", res.Kind, res.Stage, res.Message), "Moderation")
		}
	}()

	if req.GuildID == "" {
		return inv.fail("This command can only be used in a server!")
	}
	if req.Action == nil {
		return inv.fail("Unknown moderation action.")
	}
	if msg := d.resolveActors(ctx, inv); msg != "" {
		return inv.fail(msg)
	}

	switch a := req.Action.(type) {
	case Kick:
		return d.kick(ctx, inv, a)
	case Ban:
		return d.ban(ctx, inv, a)
	case Unban:
		return d.unban(ctx, inv, a)
	case Timeout:
		return d.timeout(ctx, inv, a)
	case RemoveTimeout:
		return d.removeTimeout(ctx, inv, a)
	case Warn:
		return d.warn(ctx, inv, a)
	case ListWarnings:
		return d.listWarnings(ctx, inv, a)
	case RemoveWarning:
		return d.removeWarning(ctx, inv, a)
	case ClearWarnings:
		return d.clearWarnings(ctx, inv, a)
	case AddRole:
		return d.changeRole(ctx, inv, a.TargetID, a.RoleID, true)
	case RemoveRole:
		return d.changeRole(ctx, inv, a.TargetID, a.RoleID, false)
	default:
		return inv.fail(fmt.Sprintf("Unsupported moderation action %q.", req.Action.Kind()))
	}
}

func (d *Dispatcher) resolveActors(ctx context.Context, inv *invocation) string {
	var err error
	guildID := inv.req.GuildID

	if inv.moderator, err = d.platform.Member(ctx, guildID, inv.req.ModeratorID); err != nil {
		return "Failed to retrieve your member information."
	}
	inv.res.Moderator = inv.moderator.Subject()

	if inv.agent, err = d.platform.AgentMember(ctx, guildID); err != nil {
		return "Failed to retrieve bot's member information."
	}
	if inv.ownerID, err = d.platform.GuildOwnerID(ctx, guildID); err != nil {
		return "Failed to retrieve server information."
	}
	return ""
}

// resolveTarget looks up a member target and records it on the result.
func (d *Dispatcher) resolveTarget(ctx context.Context, inv *invocation, userID string) (Member, string) {
	if userID == "" {
		return Member{}, "Failed to find the specified user."
	}
	m, err := d.platform.Member(ctx, inv.req.GuildID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return Member{}, "That user doesn't appear to be in this server."
	}
	if err != nil {
		return Member{}, fmt.Sprintf("Failed to find the specified user. Error: %v", err)
	}
	inv.res.Target = m.Subject()
	return m, ""
}

// guard evaluates the hierarchy check and advances the stage on success.
func (d *Dispatcher) guard(inv *invocation, target Member, c Capability) string {
	check := Check(GuardInput{
		Moderator:  inv.moderator,
		Agent:      inv.agent,
		Target:     target,
		OwnerID:    inv.ownerID,
		Capability: c,
	})
	if !check.Success {
		inv.res.Stage = StageGuarded
		return check.Message
	}
	inv.res.Stage = StageExecuting
	return ""
}

// guardCapability is the base check used by actions without a member target.
func (d *Dispatcher) guardCapability(inv *invocation, c Capability) string {
	check := CheckCapability(inv.moderator, inv.agent, c)
	if !check.Success {
		inv.res.Stage = StageGuarded
		return check.Message
	}
	inv.res.Stage = StageExecuting
	return ""
}

func (d *Dispatcher) log(ctx context.Context, inv *invocation, extra string) {
	if d.modlog == nil {
		return
	}
	inv.res.Delivery = d.modlog.Log(ctx, Entry{
		GuildID:   inv.req.GuildID,
		Kind:      inv.res.Kind,
		Target:    inv.res.Target,
		Moderator: inv.res.Moderator,
		Reason:    inv.res.Reason,
		Extra:     extra,
		At:        d.now(),
	})
}

func (d *Dispatcher) kick(ctx context.Context, inv *invocation, a Kick) Result {
	inv.res.Reason = reasonOrDefault(a.Reason)

	target, msg := d.resolveTarget(ctx, inv, a.TargetID)
	if msg != "" {
		return inv.fail(msg)
	}
	if msg := d.guard(inv, target, CapKick); msg != "" {
		return inv.fail(msg)
	}

	if err := d.platform.Kick(ctx, inv.req.GuildID, target.ID, inv.auditReason()); err != nil {
		return inv.fail(fmt.Sprintf("Failed to kick %s. Error: %v", target.Tag, err))
	}

	inv.succeed(fmt.Sprintf("Successfully kicked %s", target.Tag))
	d.log(ctx, inv, "")
	return inv.res
}

func (d *Dispatcher) ban(ctx context.Context, inv *invocation, a Ban) Result {
	inv.res.Reason = reasonOrDefault(a.Reason)
	inv.res.DeleteMessageDays = a.DeleteMessageDays

	if a.DeleteMessageDays < 0 || a.DeleteMessageDays > 7 {
		return inv.fail("Message deletion must be between 0 and 7 days.")
	}

	target, msg := d.resolveTarget(ctx, inv, a.TargetID)
	if msg != "" {
		return inv.fail(msg)
	}
	if msg := d.guard(inv, target, CapBan); msg != "" {
		return inv.fail(msg)
	}

	if err := d.platform.Ban(ctx, inv.req.GuildID, target.ID, inv.auditReason(), a.DeleteMessageDays); err != nil {
		return inv.fail(fmt.Sprintf("Failed to ban %s. Error: %v", target.Tag, err))
	}

	extra := ""
	if a.DeleteMessageDays > 0 {
		extra = fmt.Sprintf("Deleted messages from the last %d day(s)", a.DeleteMessageDays)
	}
	inv.succeed(fmt.Sprintf("Successfully banned %s", target.Tag))
	d.log(ctx, inv, extra)
	return inv.res
}

func (d *Dispatcher) unban(ctx context.Context, inv *invocation, a Unban) Result {
	inv.res.Reason = reasonOrDefault(a.Reason)
	inv.res.Target = Subject{ID: a.UserID}

	if !userIDPattern.MatchString(a.UserID) {
		return inv.fail("Invalid user ID format. The ID should be a number with 17-20 digits.")
	}
	if msg := d.guardCapability(inv, CapBan); msg != "" {
		return inv.fail(msg)
	}

	banned, err := d.platform.FindBan(ctx, inv.req.GuildID, a.UserID)
	if errors.Is(err, ErrBanNotFound) {
		return inv.fail("That user is not banned from this server!")
	}
	if err != nil {
		return inv.fail(fmt.Sprintf("Failed to unban user. Error: %v", err))
	}
	inv.res.Target = Subject{ID: banned.ID, Tag: banned.Tag}

	if err := d.platform.Unban(ctx, inv.req.GuildID, a.UserID, inv.auditReason()); err != nil {
		return inv.fail(fmt.Sprintf("Failed to unban user. Error: %v", err))
	}

	inv.succeed(fmt.Sprintf("Successfully unbanned %s", banned.Tag))
	d.log(ctx, inv, "")
	return inv.res
}

func (d *Dispatcher) timeout(ctx context.Context, inv *invocation, a Timeout) Result {
	inv.res.Reason = reasonOrDefault(a.Reason)

	target, msg := d.resolveTarget(ctx, inv, a.TargetID)
	if msg != "" {
		return inv.fail(msg)
	}

	dur, err := ParseDuration(a.Duration)
	if err != nil {
		return inv.fail("Invalid duration format. Examples: 30s, 5m, 1h, 1d")
	}
	if dur <= 0 {
		return inv.fail("Timeout duration must be greater than zero.")
	}
	if dur > MaxTimeout {
		return inv.fail("Timeout duration cannot exceed 28 days. Please specify a shorter duration.")
	}
	inv.res.Duration = dur

	if msg := d.guard(inv, target, CapModerate); msg != "" {
		return inv.fail(msg)
	}

	until := d.now().Add(dur)
	if err := d.platform.SetTimeout(ctx, inv.req.GuildID, target.ID, &until, inv.auditReason()); err != nil {
		return inv.fail(fmt.Sprintf("Failed to timeout %s. Error: %v", target.Tag, err))
	}
	inv.res.Until = until

	inv.succeed(fmt.Sprintf("Successfully timed out %s", target.Tag))
	d.log(ctx, inv, "Duration: "+FormatDuration(dur))
	return inv.res
}

func (d *Dispatcher) removeTimeout(ctx context.Context, inv *invocation, a RemoveTimeout) Result {
	inv.res.Reason = reasonOrDefault(a.Reason)

	target, msg := d.resolveTarget(ctx, inv, a.TargetID)
	if msg != "" {
		return inv.fail(msg)
	}
	if !target.TimedOut(d.now()) {
		return inv.fail("This user is not currently timed out.")
	}
	if msg := d.guard(inv, target, CapModerate); msg != "" {
		return inv.fail(msg)
	}

	if err := d.platform.SetTimeout(ctx, inv.req.GuildID, target.ID, nil, inv.auditReason()); err != nil {
		return inv.fail(fmt.Sprintf("Failed to remove timeout from %s. Error: %v", target.Tag, err))
	}

	inv.succeed(fmt.Sprintf("Successfully removed timeout from %s", target.Tag))
	d.log(ctx, inv, "")
	return inv.res
}

func (d *Dispatcher) warn(ctx context.Context, inv *invocation, a Warn) Result {
	inv.res.Reason = strings.TrimSpace(a.Reason)
	if inv.res.Reason == "" {
		return inv.fail("A reason is required to warn a user.")
	}

	target, msg := d.resolveTarget(ctx, inv, a.TargetID)
	if msg != "" {
		return inv.fail(msg)
	}
	if msg := d.guard(inv, target, CapModerate); msg != "" {
		return inv.fail(msg)
	}

	id, err := d.warnings.AddWarning(inv.req.GuildID, target.ID, inv.res.Reason, inv.moderator.ID)
	if err != nil {
		return inv.fail(fmt.Sprintf("Failed to warn %s. Error: %v", target.Tag, err))
	}
	inv.res.WarningID = id
	inv.res.WarningCount = d.warnings.Count(inv.req.GuildID, target.ID)

	inv.succeed(fmt.Sprintf("Successfully warned %s", target.Tag))
	d.log(ctx, inv, fmt.Sprintf("Warning #%d", inv.res.WarningCount))
	return inv.res
}

func (d *Dispatcher) listWarnings(ctx context.Context, inv *invocation, a ListWarnings) Result {
	if a.TargetID == "" {
		return inv.fail("Failed to find the specified user.")
	}
	inv.res.Target = Subject{ID: a.TargetID}
	if m, err := d.platform.Member(ctx, inv.req.GuildID, a.TargetID); err == nil {
		inv.res.Target = m.Subject()
	}

	if msg := d.guardCapability(inv, CapModerate); msg != "" {
		return inv.fail(msg)
	}

	inv.res.Warnings = d.warnings.GetWarnings(inv.req.GuildID, a.TargetID)
	inv.res.WarningCount = len(inv.res.Warnings)

	if inv.res.WarningCount == 0 {
		return inv.succeed("This user has no warnings. 🎉")
	}
	return inv.succeed(fmt.Sprintf("Found %d warning%s for this user.", inv.res.WarningCount, pluralSuffix(inv.res.WarningCount)))
}

func (d *Dispatcher) removeWarning(ctx context.Context, inv *invocation, a RemoveWarning) Result {
	id := strings.TrimSpace(a.WarningID)
	if id == "" {
		return inv.fail("A warning ID is required.")
	}
	if msg := d.guardCapability(inv, CapModerate); msg != "" {
		return inv.fail(msg)
	}

	if !d.warnings.RemoveWarning(inv.req.GuildID, id) {
		return inv.fail(fmt.Sprintf("No warning with ID `%s` was found in this server.", id))
	}
	inv.res.WarningID = id
	inv.res.Removed = 1
	inv.res.Reason = DefaultReason

	inv.succeed(fmt.Sprintf("Removed warning `%s`.", id))
	d.log(ctx, inv, "Warning ID: "+id)
	return inv.res
}

func (d *Dispatcher) clearWarnings(ctx context.Context, inv *invocation, a ClearWarnings) Result {
	if a.TargetID == "" {
		return inv.fail("Failed to find the specified user.")
	}
	inv.res.Target = Subject{ID: a.TargetID}
	if m, err := d.platform.Member(ctx, inv.req.GuildID, a.TargetID); err == nil {
		inv.res.Target = m.Subject()
	}
	if msg := d.guardCapability(inv, CapModerate); msg != "" {
		return inv.fail(msg)
	}

	inv.res.Removed = d.warnings.ClearWarnings(inv.req.GuildID, a.TargetID)
	inv.res.Reason = DefaultReason

	inv.succeed(fmt.Sprintf("Cleared %d warning%s for %s.", inv.res.Removed, pluralSuffix(inv.res.Removed), inv.res.Target.Label()))
	if inv.res.Removed > 0 {
		d.log(ctx, inv, fmt.Sprintf("%d warning(s) removed", inv.res.Removed))
	}
	return inv.res
}

func (d *Dispatcher) changeRole(ctx context.Context, inv *invocation, targetID, roleID string, add bool) Result {
	inv.res.Reason = DefaultReason

	target, msg := d.resolveTarget(ctx, inv, targetID)
	if msg != "" {
		return inv.fail(msg)
	}
	if roleID == "" {
		return inv.fail("Role not found!")
	}
	role, err := d.platform.Role(ctx, inv.req.GuildID, roleID)
	if errors.Is(err, ErrRoleNotFound) {
		return inv.fail("Could not find that role in the server.")
	}
	if err != nil {
		return inv.fail(fmt.Sprintf("Failed to look up the role. Error: %v", err))
	}
	inv.res.Role = role

	check := CheckRoleAssignment(inv.moderator, inv.agent, role, inv.ownerID)
	if !check.Success {
		inv.res.Stage = StageGuarded
		return inv.fail(check.Message)
	}
	inv.res.Stage = StageExecuting

	has, err := d.platform.MemberHasRole(ctx, inv.req.GuildID, target.ID, role.ID)
	if err != nil {
		return inv.fail(fmt.Sprintf("Failed to read the roles of %s. Error: %v", target.Tag, err))
	}
	mention := "<@" + target.ID + ">"

	if add {
		if has {
			return inv.fail(fmt.Sprintf("%s already has the %s role.", mention, role.Mention()))
		}
		if err := d.platform.AddRole(ctx, inv.req.GuildID, target.ID, role.ID, inv.auditReason()); err != nil {
			return inv.fail(fmt.Sprintf("Failed to add the %s role to %s. Error: %v", role.Name, target.Tag, err))
		}
		inv.succeed(fmt.Sprintf("Successfully added the %s role to %s", role.Mention(), mention))
	} else {
		if !has {
			return inv.fail(fmt.Sprintf("%s doesn't have the %s role.", mention, role.Mention()))
		}
		if err := d.platform.RemoveRole(ctx, inv.req.GuildID, target.ID, role.ID, inv.auditReason()); err != nil {
			return inv.fail(fmt.Sprintf("Failed to remove the %s role from %s. Error: %v", role.Name, target.Tag, err))
		}
		inv.succeed(fmt.Sprintf("Successfully removed the %s role from %s", role.Mention(), mention))
	}

	d.log(ctx, inv, fmt.Sprintf("Role: %s (%s)", role.Name, role.ID))
	return inv.res
}

func pluralSuffix(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
