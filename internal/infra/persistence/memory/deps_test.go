package memory

import (
	"testing"

	"sakanacore/testutil"
)

func TestImportsAreDomainOrStdlib(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", func(imp string) bool {
		return testutil.InternalImportForbidden(imp) || testutil.ThirdPartyImportForbidden(imp)
	}, "memory store depends only on pkg/domain and the standard library")
}
