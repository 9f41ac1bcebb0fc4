// Package status maps between the application's status vocabulary and
// the remote document store's task statuses, in both directions.
//
// The forward map is not injective: approved and published both collapse
// to Completed, so remote->app picks one canonical application status per
// remote status and a round trip is only idempotent, not
// identity-preserving, for the collapsed states. This is a known lossy
// conversion.
package status

import "github.com/luminamkt/agencyhub/pkg/models"

// Remote task status vocabulary
const (
	RemoteOpen          = "Open"
	RemoteWorking       = "Working"
	RemotePendingReview = "Pending Review"
	RemoteCompleted     = "Completed"
	RemoteCancelled     = "Cancelled"
)

// RemoteStatuses is the closed set of remote task statuses
var RemoteStatuses = []string{
	RemoteOpen,
	RemoteWorking,
	RemotePendingReview,
	RemoteCompleted,
	RemoteCancelled,
}

var contentToRemote = map[string]string{
	models.ContentStatusDraft:           RemoteOpen,
	models.ContentStatusPendingApproval: RemotePendingReview,
	models.ContentStatusApproved:        RemoteCompleted,
	models.ContentStatusPublished:       RemoteCompleted,
}

var remoteToContent = map[string]string{
	RemoteOpen:          models.ContentStatusDraft,
	RemoteWorking:       models.ContentStatusDraft,
	RemotePendingReview: models.ContentStatusPendingApproval,
	RemoteCompleted:     models.ContentStatusApproved,
	RemoteCancelled:     models.ContentStatusDraft,
}

// ContentToRemote maps a content grid status to the remote vocabulary.
// Total over the application enum; unknown input maps to Open.
func ContentToRemote(appStatus string) string {
	if remote, ok := contentToRemote[appStatus]; ok {
		return remote
	}
	return RemoteOpen
}

// ContentToApp maps a remote task status to the canonical content grid
// status. Total over the remote enum; unknown input maps to draft.
func ContentToApp(remoteStatus string) string {
	if app, ok := remoteToContent[remoteStatus]; ok {
		return app
	}
	return models.ContentStatusDraft
}

var deliverableToRemote = map[string]string{
	models.DeliverableStatusPending:          RemoteOpen,
	models.DeliverableStatusApproved:         RemoteCompleted,
	models.DeliverableStatusChangesRequested: RemoteWorking,
}

var remoteToDeliverable = map[string]string{
	RemoteOpen:          models.DeliverableStatusPending,
	RemoteWorking:       models.DeliverableStatusChangesRequested,
	RemotePendingReview: models.DeliverableStatusPending,
	RemoteCompleted:     models.DeliverableStatusApproved,
	RemoteCancelled:     models.DeliverableStatusPending,
}

// DeliverableToRemote derives the remote task status from a deliverable
// status. The remote field is a secondary, approximate signal only; the
// authoritative value lives in the embedded metadata blob.
func DeliverableToRemote(appStatus string) string {
	if remote, ok := deliverableToRemote[appStatus]; ok {
		return remote
	}
	return RemoteOpen
}

// DeliverableFromRemote derives a deliverable status from the remote
// field, used only when the metadata blob is absent or undecodable.
func DeliverableFromRemote(remoteStatus string) string {
	if app, ok := remoteToDeliverable[remoteStatus]; ok {
		return app
	}
	return models.DeliverableStatusPending
}
