package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LaunchAction distinguishes audit trail entries.
type LaunchAction string

const (
	ActionLaunch    LaunchAction = "launch"
	ActionStop      LaunchAction = "stop"
	ActionStart     LaunchAction = "start"
	ActionTerminate LaunchAction = "terminate"
)

// LaunchRecord is the audit trail of instance lifecycle operations. The
// catalog itself is never persisted; only operator-visible actions are.
type LaunchRecord struct {
	gorm.Model
	RequestID  string         `gorm:"type:varchar(64);uniqueIndex;not null;comment:request id"`
	Actor      string         `gorm:"type:varchar(64);not null;comment:username from the access token"`
	Action     LaunchAction   `gorm:"type:varchar(16);not null;comment:lifecycle action"`
	Provider   string         `gorm:"type:varchar(32);not null;index;comment:provider token"`
	InstanceID string         `gorm:"type:varchar(128);index;comment:vendor instance id"`
	GPUType    string         `gorm:"type:varchar(64);comment:requested gpu type"`
	Succeeded  bool           `gorm:"not null;comment:whether the vendor call succeeded"`
	Message    string         `gorm:"type:varchar(512);comment:error message on failure"`
	Config     datatypes.JSON `gorm:"comment:launch config snapshot"`
}
