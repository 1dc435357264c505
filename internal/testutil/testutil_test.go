package testutil

import (
	"strings"
	"testing"
)

func TestNewTestDSN(t *testing.T) {
	dsn := NewTestDSN("TestName")
	if !strings.Contains(dsn, "file:TestName?mode=memory&cache=shared") {
		t.Errorf("NewTestDSN did not generate expected DSN, got: %s", dsn)
	}
}

func TestNewTestDSN_Subtest(t *testing.T) {
	dsn := NewTestDSN("TestName/sub_case")
	if dsn != "file:TestName_sub_case?mode=memory&cache=shared" {
		t.Errorf("NewTestDSN did not flatten subtest name, got: %s", dsn)
	}
}
