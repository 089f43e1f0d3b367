package workflow

import (
	"fmt"

	"github.com/all4-dev/gradle-release-plugin/pkg/publish"
	"github.com/all4-dev/gradle-release-plugin/pkg/vault"
)

// Doctor validates every precondition publishing relies on: tool
// availability, descriptor readability, and the readability of each
// secret every destination requires. Read-only and always safe to
// re-run.
func (w *Workflow) Doctor() error {
	return w.doctor(false)
}

type doctorCheck struct {
	name string
	err  error
}

// doctor runs all checks and prints one line per check. skipReads
// leaves the vault untouched (used by dry-run flows, which must have no
// external dependencies beyond the local tree).
func (w *Workflow) doctor(skipReads bool) error {
	var checks []doctorCheck
	add := func(name string, err error) {
		checks = append(checks, doctorCheck{name: name, err: err})
	}

	add("git available", available(w.git.ToolAvailable(), "install git"))
	add("build tool available", available(w.publisher.ToolAvailable(), fmt.Sprintf("expected %s in the project root", w.cfg.Gradle)))

	_, metaErr := w.readMeta()
	add("descriptor readable", metaErr)

	vaultOK := w.secrets.ToolAvailable()
	add(fmt.Sprintf("%s CLI available", vault.CLIName), available(vaultOK, fmt.Sprintf("install the %s CLI and run `%s signin`", vault.CLIName, vault.CLIName)))

	for _, dest := range publish.Remote() {
		// Structural check first: a missing mapping entry must fail
		// before any vault or network call.
		structural := w.cfg.HasSecretsFor(dest)
		add(fmt.Sprintf("secret mapping for %s", dest.Name), structural)
		if structural != nil || skipReads || !vaultOK {
			continue
		}
		for _, key := range dest.RequiredSecrets {
			_, err := w.secrets.Read(w.cfg.Secrets[dest.Name][key])
			add(fmt.Sprintf("secret %s (%s)", key, dest.Name), err)
		}
	}

	failures := 0
	for _, c := range checks {
		if c.err != nil {
			failures++
			fmt.Fprintf(w.out, "FAIL %s: %v\n", c.name, c.err)
		} else {
			fmt.Fprintf(w.out, "ok   %s\n", c.name)
		}
	}

	if failures > 0 {
		return fmt.Errorf("doctor found %d problem(s)", failures)
	}
	return nil
}

func available(ok bool, remedy string) error {
	if ok {
		return nil
	}
	return fmt.Errorf("not available; %s", remedy)
}
