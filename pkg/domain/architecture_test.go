package domain

import (
	"testing"

	"sakanacore/testutil"
)

// TestDomainDoesNotImportInternal keeps the public model free of engine and
// infrastructure packages so external callers can depend on it alone.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"pkg/domain must not depend on internal packages")
}

func TestDomainHasNoThirdPartyImports(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ThirdPartyImportForbidden,
		"pkg/domain must stay standard-library only")
}
