package hcloud

import (
	"errors"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// isResourceLocked reports whether the error indicates a transient lock
// that clears once the API finishes a concurrent mutation.
func isResourceLocked(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeLocked,
		hcloud.ErrorCodeConflict,
		hcloud.ErrorCodeResourceLocked,
		hcloud.ErrorCodeResourceUnavailable,
	)
}

// isInvalidParameter reports whether the error indicates a request that
// can never succeed as written.
func isInvalidParameter(err error) bool {
	return isHCloudErrorCode(err,
		hcloud.ErrorCodeNotFound,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeInvalidServerType,
	)
}

// isResourceInUse reports whether the resource is still referenced by
// another, for example a firewall applied to a server that is being
// deleted.
func isResourceInUse(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeResourceInUse)
}

// IsNotFound reports whether the error is the API's not-found response.
func IsNotFound(err error) bool {
	return isHCloudErrorCode(err, hcloud.ErrorCodeNotFound)
}

func isHCloudErrorCode(err error, codes ...hcloud.ErrorCode) bool {
	var herr hcloud.Error
	if !errors.As(err, &herr) {
		return false
	}
	for _, code := range codes {
		if herr.Code == code {
			return true
		}
	}
	return false
}
