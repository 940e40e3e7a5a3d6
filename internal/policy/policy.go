// Package policy derives allowed actions from caller identity, role, and
// resource ownership. It is a pure decision function with no dependency on
// any transport or store, so every entry point applies identical rules.
package policy

// Action identifies an operation subject to authorization.
type Action string

const (
	ActionReadPost      Action = "post.read"
	ActionCreatePost    Action = "post.create"
	ActionUpdatePost    Action = "post.update"
	ActionDeletePost    Action = "post.delete"
	ActionReadComment   Action = "comment.read"
	ActionCreateComment Action = "comment.create"
	ActionEditComment   Action = "comment.edit"
	ActionDeleteComment Action = "comment.delete"
	ActionToggleLike    Action = "comment.like"
	ActionReadUser      Action = "user.read"
	ActionUpdateUser    Action = "user.update"
	ActionDeleteUser    Action = "user.delete"
	ActionListUsers     Action = "user.list"
	ActionListComments  Action = "comment.list_all"
)

// Caller describes the requesting identity as established by the transport.
type Caller struct {
	ID            uint
	Authenticated bool
	Admin         bool
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func isRead(action Action) bool {
	switch action {
	case ActionReadPost, ActionReadComment, ActionReadUser:
		return true
	}
	return false
}

// Authorize decides whether caller may perform action on a resource owned by
// ownerID. Rules, in priority order:
//
//  1. Unauthenticated callers may only read.
//  2. Admins may do everything except edit another user's comment content.
//  3. Everyone else is limited to resources they own, plus commenting and
//     like toggling. Post authoring is reserved for admins.
func Authorize(caller Caller, action Action, ownerID uint) Decision {
	if isRead(action) {
		return allow()
	}
	if !caller.Authenticated {
		return deny("authentication required")
	}

	switch action {
	case ActionCreateComment, ActionToggleLike:
		return allow()
	case ActionEditComment:
		// Strictly author-only; admin status grants no edit rights.
		if caller.ID == ownerID {
			return allow()
		}
		return deny("only the comment author can edit it")
	case ActionCreatePost:
		if caller.Admin {
			return allow()
		}
		return deny("only admins can create posts")
	case ActionListUsers, ActionListComments:
		if caller.Admin {
			return allow()
		}
		return deny("admin access required")
	}

	if caller.Admin || caller.ID == ownerID {
		return allow()
	}
	return deny("you do not own this resource")
}
