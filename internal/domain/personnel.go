package domain

import (
	"strconv"
	"strings"
	"time"
)

// Personnel links a user to a project. The (ProjectID, UserID) pair is the
// composite key; at most one active assignment exists per pair.
type Personnel struct {
	ProjectID  int64
	UserID     int64
	AssignedAt time.Time
}

// PersonnelOp tags a personnel-change log entry.
type PersonnelOp string

const (
	PersonnelAdded   PersonnelOp = "a"
	PersonnelRemoved PersonnelOp = "r"
)

// EncodePersonnelChange renders the compact audit log form for a batch
// personnel mutation: a leading op tag followed by the affected user ids,
// semicolon separated (e.g. "a;2;3").
func EncodePersonnelChange(op PersonnelOp, userIDs []int64) string {
	parts := make([]string, 0, len(userIDs)+1)
	parts = append(parts, string(op))
	for _, id := range userIDs {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ";")
}
