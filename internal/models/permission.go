package models

// Action is a permission-guarded operation on a parameter or sub-parameter.
type Action string

// Actions resolvable by the permission resolver
const (
	ActionView     Action = "view"
	ActionAdd      Action = "add"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionDownload Action = "download"
	ActionApprove  Action = "approve"
)

// EntityKind identifies the target entity type of a permission check.
type EntityKind string

const (
	KindParameter    EntityKind = "parameter"
	KindSubParameter EntityKind = "sub_parameter"
)

// PermissionSet holds the six per-action grant flags of a permission row.
type PermissionSet struct {
	CanView     bool `db:"can_view" json:"canView"`
	CanAdd      bool `db:"can_add" json:"canAdd"`
	CanEdit     bool `db:"can_edit" json:"canEdit"`
	CanDelete   bool `db:"can_delete" json:"canDelete"`
	CanDownload bool `db:"can_download" json:"canDownload"`
	CanApprove  bool `db:"can_approve" json:"canApprove"`
}

// Allows returns the flag value for the given action.
func (p PermissionSet) Allows(action Action) bool {
	switch action {
	case ActionView:
		return p.CanView
	case ActionAdd:
		return p.CanAdd
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	case ActionDownload:
		return p.CanDownload
	case ActionApprove:
		return p.CanApprove
	}
	return false
}

// ParameterUserPermission represents a row in parameter_user_permissions.
// At most one row exists per (user, parameter) pair.
type ParameterUserPermission struct {
	UserID      int64 `db:"user_id" json:"userId"`
	ParameterID int64 `db:"parameter_id" json:"parameterId"`
	PermissionSet
}

// AreaUserPermission represents a row in area_user_permissions. It acts as
// the fallback when no parameter-level row exists for a user.
type AreaUserPermission struct {
	UserID int64 `db:"user_id" json:"userId"`
	AreaID int64 `db:"area_id" json:"areaId"`
	PermissionSet
}

// PermissionGrant is one entry of a permission-assignment payload.
type PermissionGrant struct {
	UserID      int64 `json:"userId" binding:"required"`
	CanView     bool  `json:"canView"`
	CanAdd      bool  `json:"canAdd"`
	CanEdit     bool  `json:"canEdit"`
	CanDelete   bool  `json:"canDelete"`
	CanDownload bool  `json:"canDownload"`
	CanApprove  bool  `json:"canApprove"`
}

// Set converts the grant payload into a PermissionSet.
func (g PermissionGrant) Set() PermissionSet {
	return PermissionSet{
		CanView:     g.CanView,
		CanAdd:      g.CanAdd,
		CanEdit:     g.CanEdit,
		CanDelete:   g.CanDelete,
		CanDownload: g.CanDownload,
		CanApprove:  g.CanApprove,
	}
}

// PermissionAssignRequest represents the API payload of a full-replace
// permission assignment. Users absent from the list lose their entity-level
// row and fall back to area-level grants.
type PermissionAssignRequest struct {
	Grants []PermissionGrant `json:"grants" binding:"required,dive"`
}
