// Package pgp verifies a repository's InRelease file against a pinned
// OpenPGP certificate. Verification never discovers trust dynamically: the
// certificate is supplied by the caller (the Distro registry) and is the
// only key ever consulted, regardless of which key handle a message claims
// to be signed by.
package pgp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
)

// Verifier checks cleartext-signed or inline-signed messages against a
// single pinned certificate.
//
// The pinned keyring is the only keyring ever consulted, regardless of
// which key handle a message names, and any message whose embedded
// signature doesn't check out against it is rejected outright. There is no
// second chance at a different key and no web-of-trust walk.
type Verifier struct {
	keyring openpgp.EntityList
}

// CertificateError means the pinned certificate itself couldn't be loaded.
// That is a buildpack bug (a bad key fixture), never something the user
// caused.
type CertificateError struct {
	Err error
}

func (e *CertificateError) Error() string {
	return fmt.Sprintf("failed to load pinned certificate: %v", e.Err)
}

func (e *CertificateError) Unwrap() error { return e.Err }

// VerificationFailedError means a message's signature didn't check out
// against the pinned certificate: the upstream archive sent something
// that isn't validly signed, or a download was corrupted in transit.
type VerificationFailedError struct {
	Err error
}

func (e *VerificationFailedError) Error() string {
	return fmt.Sprintf("signature verification failed: %v", e.Err)
}

func (e *VerificationFailedError) Unwrap() error { return e.Err }

// NewVerifier parses an armored certificate into a pinned keyring.
func NewVerifier(armoredCertificate string) (*Verifier, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader([]byte(armoredCertificate)))
	if err != nil {
		return nil, &CertificateError{Err: err}
	}
	if len(keyring) == 0 {
		return nil, &CertificateError{Err: fmt.Errorf("pinned certificate contains no keys")}
	}
	return &Verifier{keyring: keyring}, nil
}

// Verify checks data (the raw bytes of an InRelease or Release file) and
// returns the verified cleartext payload. Cleartext-signed (clearsign)
// messages are detected by their "-----BEGIN PGP SIGNED MESSAGE-----"
// header; anything else is treated as an inline-signed message.
func (v *Verifier) Verify(data []byte) ([]byte, error) {
	if block, _ := clearsign.Decode(data); block != nil {
		if _, err := openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(block.Bytes), block.ArmoredSignature.Body, nil); err != nil {
			return nil, &VerificationFailedError{Err: err}
		}
		return block.Plaintext, nil
	}
	return v.verifyInlineSigned(data)
}

// VerifyDetached checks a detached signature (Release.gpg) over the
// corresponding body bytes. The signature may be ASCII-armored or binary.
func (v *Verifier) VerifyDetached(body, signature []byte) error {
	var err error
	if bytes.HasPrefix(bytes.TrimSpace(signature), []byte("-----BEGIN PGP")) {
		_, err = openpgp.CheckArmoredDetachedSignature(v.keyring, bytes.NewReader(body), bytes.NewReader(signature), nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(v.keyring, bytes.NewReader(body), bytes.NewReader(signature), nil)
	}
	if err != nil {
		return &VerificationFailedError{Err: err}
	}
	return nil
}

func (v *Verifier) verifyInlineSigned(data []byte) ([]byte, error) {
	md, err := openpgp.ReadMessage(bytes.NewReader(data), v.keyring, nil, nil)
	if err != nil {
		return nil, &VerificationFailedError{Err: err}
	}
	payload, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	if !md.IsSigned || md.SignedBy == nil {
		return nil, &VerificationFailedError{Err: fmt.Errorf("message is not signed by a key in the pinned certificate")}
	}
	if md.SignatureError != nil {
		return nil, &VerificationFailedError{Err: md.SignatureError}
	}
	return payload, nil
}
