package drive

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"drive-file-upload/domain/distribution"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// translateError maps errors from the Google client libraries onto the upload error kinds
func translateError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		remote := &distribution.RemoteError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Err:     err,
		}
		for _, item := range apiErr.Errors {
			if item.Reason != "" {
				remote.Reasons = append(remote.Reasons, item.Reason)
			}
		}
		return remote
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return distribution.NewError(distribution.AuthFailure, op, err)
	}

	if isSecurityError(err) {
		return distribution.NewError(distribution.SecurityFailure, op, err)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}

// isSecurityError reports whether err came from TLS or certificate verification
func isSecurityError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var invalidCert x509.CertificateInvalidError
	var hostname x509.HostnameError
	var verification *tls.CertificateVerificationError
	var recordHeader tls.RecordHeaderError

	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &invalidCert) ||
		errors.As(err, &hostname) ||
		errors.As(err, &verification) ||
		errors.As(err, &recordHeader)
}
