// Package common contains shared constants and sentinel errors used across
// Your Journey components.
package common

// TimeCapsuleNotificationType tags notification payloads that belong to
// time capsules.
const TimeCapsuleNotificationType = "timecapsule"
