package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/2toxic/evxx/internal/buildinfo"
)

func TestVersionDefaultOutputStable(t *testing.T) {
	oldVersion, oldCommit, oldDate := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	oldJSON := flagJSON
	defer func() {
		buildinfo.Version, buildinfo.Commit, buildinfo.Date = oldVersion, oldCommit, oldDate
		flagJSON = oldJSON
	}()

	buildinfo.Version = "0.1"
	buildinfo.Commit = ""
	buildinfo.Date = ""
	flagJSON = false

	var out bytes.Buffer
	Cmd.SetOut(&out)
	defer Cmd.SetOut(nil)
	if err := Cmd.RunE(Cmd, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "ev 0.1 (unknown)\n" {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestVersionJSON(t *testing.T) {
	oldCommit, oldJSON := buildinfo.Commit, flagJSON
	defer func() { buildinfo.Commit, flagJSON = oldCommit, oldJSON }()
	buildinfo.Commit = "abc1234"
	flagJSON = true

	var out bytes.Buffer
	Cmd.SetOut(&out)
	defer Cmd.SetOut(nil)
	if err := Cmd.RunE(Cmd, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	var info buildinfo.Info
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if info.Commit != "abc1234" || info.Go == "" {
		t.Fatalf("unexpected info: %+v", info)
	}
}
