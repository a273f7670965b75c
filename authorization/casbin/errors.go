package casbin

import "fmt"

type UnknownPolicyTypeError struct {
	PolicyType string
}

func (err UnknownPolicyTypeError) Error() string {
	return "unknown policy type: " + err.PolicyType
}

type InvalidPolicyRecordError struct {
	Record []string
}

func (err InvalidPolicyRecordError) Error() string {
	return fmt.Sprintf("invalid policy record: %v", err.Record)
}
