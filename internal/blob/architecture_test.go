package blob

import (
	"testing"

	"sakanacore/testutil"
)

// Only this package may wrap the infra-backed implementations; everything else
// depends on blob.Store.
func TestOnlyBlobPackageImportsInfra(t *testing.T) {
	testutil.AssertImportBoundary(t, testutil.ModulePath+"/...", testutil.ModulePath+"/internal/infra/blob", testutil.ModulePath+"/internal/blob")
}
