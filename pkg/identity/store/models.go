package store

import (
	"time"

	"github.com/marmos91/posixid/pkg/identity"
)

// AccountRecord is the persisted form of an identity.Account.
type AccountRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Position  int64     `gorm:"index;not null" json:"position"`
	Name      string    `gorm:"index;not null;size:255" json:"name"`
	UID       uint32    `gorm:"index;not null" json:"uid"`
	GID       uint32    `gorm:"not null" json:"gid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for AccountRecord.
func (AccountRecord) TableName() string {
	return "accounts"
}

// Account converts the record to the domain type.
func (r *AccountRecord) Account() *identity.Account {
	return &identity.Account{UID: r.UID, GID: r.GID, Name: r.Name}
}

// GroupRecord is the persisted form of an identity.Group.
type GroupRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Position  int64     `gorm:"index;not null" json:"position"`
	Name      string    `gorm:"index;size:255" json:"name"`
	GID       uint32    `gorm:"index;not null" json:"gid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Members []GroupMember `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

// TableName returns the table name for GroupRecord.
func (GroupRecord) TableName() string {
	return "groups"
}

// Group converts the record to the domain type, keeping member order.
func (r *GroupRecord) Group() *identity.Group {
	g := &identity.Group{GID: r.GID, Name: r.Name}
	if len(r.Members) > 0 {
		g.Members = make([]string, 0, len(r.Members))
		for _, m := range r.Members {
			g.Members = append(g.Members, m.Username)
		}
	}
	return g
}

// GroupMember is one entry of a group's member list.
type GroupMember struct {
	GroupID  string `gorm:"primaryKey;size:36" json:"group_id"`
	Position int    `gorm:"primaryKey;autoIncrement:false" json:"position"`
	Username string `gorm:"index;not null;size:255" json:"username"`
}

// TableName returns the table name for GroupMember.
func (GroupMember) TableName() string {
	return "group_members"
}

func allModels() []any {
	return []any{&AccountRecord{}, &GroupRecord{}, &GroupMember{}}
}
