package errors

import "fmt"

// Common error types.
var (
	// Resolution errors.
	ErrPackageNotFound     = fmt.Errorf("package not found in registry")
	ErrNoSatisfyingVersion = fmt.Errorf("no published version satisfies requirement")
	ErrLockfileMismatch    = fmt.Errorf("lockfile cannot satisfy manifest requirement")

	// Registry errors.
	ErrRegistryRequest = fmt.Errorf("registry request failed")
	ErrTarballDownload = fmt.Errorf("tarball download failed")
	ErrTarballMissing  = fmt.Errorf("dist metadata is missing a tarball URL")

	// Store errors.
	ErrStoreExtract   = fmt.Errorf("failed to unpack package archive")
	ErrStoreCorrupt   = fmt.Errorf("store entry has no package contents")
	ErrStoreDirectory = fmt.Errorf("store directory cannot be empty")

	// Install errors.
	ErrInstallLink  = fmt.Errorf("failed to link package into place")
	ErrInstallPath  = fmt.Errorf("install path escapes node_modules")
	ErrScriptFailed = fmt.Errorf("lifecycle script failed")

	// Manifest and config errors.
	ErrManifestInvalid  = fmt.Errorf("package.json is invalid")
	ErrManifestMissing  = fmt.Errorf("package.json not found")
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
