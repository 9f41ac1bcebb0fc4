// Package handlers wires HTTP requests to the service layer.
package handlers

import (
	stderrors "errors"

	"github.com/luminamkt/agencyhub/pkg/erp"
	"github.com/luminamkt/agencyhub/pkg/store"
)

// isNotFound matches a miss from either side: the local repository or
// the remote document store.
func isNotFound(err error) bool {
	return stderrors.Is(err, store.ErrNotFound) || stderrors.Is(err, erp.ErrNotFound)
}
