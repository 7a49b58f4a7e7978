package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainInstance = "roommates/instance/v1"
	DomainMatching = "roommates/matching/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InstanceID computes the content-addressed ID of an instance.
// Participant order is part of the identity.
func InstanceID(inst Instance) (string, error) {
	canonical, err := MarshalCanonical(inst)
	if err != nil {
		return "", fmt.Errorf("InstanceID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInstance, canonical), nil
}

// MatchingHash computes the content-addressed hash of a matching.
// Key order is irrelevant; canonical JSON sorts keys.
func MatchingHash(matching map[string]string) (string, error) {
	if matching == nil {
		matching = map[string]string{}
	}
	canonical, err := MarshalCanonical(matching)
	if err != nil {
		return "", fmt.Errorf("MatchingHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMatching, canonical), nil
}
