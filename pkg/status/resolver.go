package status

import "github.com/luminamkt/agencyhub/pkg/models"

// Resolver produces a deliverable status or "" when it has no answer
type Resolver func() string

// Resolve walks an ordered list of resolvers and returns the first
// non-empty valid result. Callers order them by authority:
// embedded-metadata status, then derived-from-remote, then default.
func Resolve(resolvers ...Resolver) string {
	for _, r := range resolvers {
		if s := r(); s != "" && validDeliverableStatus(s) {
			return s
		}
	}
	return models.DeliverableStatusPending
}

// FromMeta resolves from the metadata-embedded status
func FromMeta(appStatus string) Resolver {
	return func() string { return appStatus }
}

// FromRemote resolves by deriving from the remote task status
func FromRemote(remoteStatus string) Resolver {
	return func() string {
		if remoteStatus == "" {
			return ""
		}
		return DeliverableFromRemote(remoteStatus)
	}
}

func validDeliverableStatus(s string) bool {
	for _, v := range models.DeliverableStatuses {
		if v == s {
			return true
		}
	}
	return false
}
