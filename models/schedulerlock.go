package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SchedulerLock is a distributed lock document used so periodic jobs run on
// a single instance at a time
type SchedulerLock struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	JobName    string             `bson:"jobName"`
	InstanceID string             `bson:"instanceID"`
	ExpiresAt  primitive.DateTime `bson:"expiresAt"`
	AcquiredAt primitive.DateTime `bson:"acquiredAt"`
}
