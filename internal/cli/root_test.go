package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryantking/crules/internal/cli"
	"github.com/ryantking/crules/internal/deploy"
	"github.com/ryantking/crules/internal/exitcode"
)

type fixture struct {
	root      string
	templates string
}

// setup creates a git project, changes into a nested directory of it, and
// writes a templates directory with two rule-sets.
func setup(t *testing.T) fixture {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	f := fixture{root: t.TempDir(), templates: t.TempDir()}
	require.NoError(t, os.Mkdir(filepath.Join(f.root, ".git"), 0o755))
	nested := filepath.Join(f.root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	for p, content := range map[string]string{
		"rule.md":           "---\ndescription: \"\"\nglobs: []\nalwaysApply: false\n---\n",
		"default/README.md": "# Default rules\n",
		"default/general.md": "---\ndescription: General\nglobs: [\"**/*\"]\n" +
			"alwaysApply: true\n---\ngeneral\n",
		"custom/README.md": "# Custom rules\n",
		"custom/only.md":   "---\ndescription: Only\nglobs: \"*.go\"\nalwaysApply: false\n---\nonly\n",
	} {
		full := filepath.Join(f.templates, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return f
}

func (f fixture) rule(name string) string {
	return filepath.Join(f.root, ".cursor", "rules", name)
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return run(t, append([]string{"--templates-dir", f.templates}, args...)...)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), err
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func TestInitDeploysAtProjectRoot(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(f.rule("general.mdc"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "general\n")
	assert.False(t, fileExists(f.rule("only.mdc")))
	assert.False(t, fileExists(filepath.Join(f.root, "src", "pkg", ".cursor")))

	assert.Contains(t, out, "(created)")
	assert.Contains(t, out, "Copied 1 rule(s)")
	assert.Contains(t, out, "✓ Rules initialized successfully")
}

func TestInitList(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "init", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "custom   Custom rules")
	assert.Contains(t, out, "default  Default rules")
	assert.False(t, fileExists(f.rule("")))
}

func TestInitNamedRuleSet(t *testing.T) {
	for _, flag := range []string{"--rule-set", "--framework"} {
		t.Run(flag, func(t *testing.T) {
			f := setup(t)

			_, err := f.run(t, "init", flag, "custom")
			require.NoError(t, err)
			assert.True(t, fileExists(f.rule("only.mdc")))
			assert.False(t, fileExists(f.rule("general.mdc")))
		})
	}
}

func TestInitUnknownRuleSet(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "init", "--rule-set", "missing")
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.Code(err))
	assert.Contains(t, err.Error(), "default")
	assert.Contains(t, err.Error(), "custom")
	assert.False(t, fileExists(f.rule("")))
}

func TestInitSkipsExisting(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "init")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(f.rule("general.mdc"), []byte("local"), 0o644))

	out, err := f.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped, already exists, use --force to overwrite")
	assert.Contains(t, out, "No rules copied")

	data, err := os.ReadFile(f.rule("general.mdc"))
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))

	out, err = f.run(t, "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "(overwritten)")
}

func TestInitDryRun(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "init", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry-run")
	assert.False(t, fileExists(f.rule("")))
}

func TestInitCleanKeepsProjectRoot(t *testing.T) {
	f := setup(t)
	mainGo := filepath.Join(f.root, "main.go")
	require.NoError(t, os.WriteFile(mainGo, []byte("package main\n"), 0o644))

	for _, dir := range []string{".", "..", "/", f.root} {
		_, err := f.run(t, "init", "--rules-dir", dir, "--clean")
		require.ErrorContains(t, err, "rules_dir", dir)
		assert.Equal(t, exitcode.Failure, exitcode.Code(err))
	}

	assert.True(t, fileExists(mainGo))
	assert.True(t, fileExists(filepath.Join(f.root, ".git")))
}

func TestInitWarnsWhenIgnored(t *testing.T) {
	f := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.root, ".gitignore"), []byte(".cursor/\n"), 0o644))

	out, err := f.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "is ignored by git")
}

func TestInitBundledTemplates(t *testing.T) {
	f := setup(t)

	out, err := run(t, "init", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "flutter")

	_, err = run(t, "init")
	require.NoError(t, err)
	assert.True(t, fileExists(f.rule("general.mdc")))
	assert.True(t, fileExists(f.rule(filepath.Join("git", "commits.mdc"))))

	out, err = run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "are valid")
}

func TestUsageErrors(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "init", "--rule-set", "default", "--framework", "custom")
	require.Error(t, err)
	assert.Equal(t, exitcode.Usage, exitcode.Code(err))

	_, err = f.run(t, "init", "--bogus")
	require.Error(t, err)
	assert.Equal(t, exitcode.Usage, exitcode.Code(err))
}

func TestAdd(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "add", "api-style")
	require.NoError(t, err)
	assert.True(t, fileExists(f.rule("api-style.mdc")))
	assert.Contains(t, out, "✓ Rule created successfully")

	_, err = f.run(t, "add", "api-style")
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.Code(err))
	assert.Contains(t, err.Error(), "--force")

	_, err = f.run(t, "add", "api-style", "--force")
	require.NoError(t, err)
}

func TestAddInvalidName(t *testing.T) {
	f := setup(t)

	for _, name := range []string{"../escape", ".hidden", " "} {
		_, err := f.run(t, "add", name)
		require.ErrorIs(t, err, deploy.ErrInvalidRuleName, name)

		var coded *exitcode.Error
		require.ErrorAs(t, err, &coded)
		assert.Equal(t, exitcode.Usage, exitcode.Code(err))
	}
	assert.False(t, fileExists(f.rule("")))
}

func TestAddMissingTemplate(t *testing.T) {
	f := setup(t)
	require.NoError(t, os.Remove(filepath.Join(f.templates, "rule.md")))

	_, err := f.run(t, "add", "api-style")
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.Code(err))
	assert.Contains(t, err.Error(), "rule template not found")
}

func TestList(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "No rules found.\n0 rules\n", out)

	_, err = f.run(t, "init")
	require.NoError(t, err)
	_, err = f.run(t, "init", "--rule-set", "custom")
	require.NoError(t, err)

	out, err = f.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "general")
	assert.Contains(t, out, "General")
	assert.Contains(t, out, "only")
	assert.True(t, strings.HasSuffix(out, "2 rule(s)\n"), out)

	out, err = f.run(t, "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "general"`)
}

func TestInspectWithoutTemplates(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "init")
	require.NoError(t, err)

	missing := filepath.Join(f.templates, "missing")
	for _, args := range [][]string{{"list"}, {"show", "general"}, {"validate"}, {"remove", "general"}} {
		_, err := run(t, append([]string{"--templates-dir", missing}, args...)...)
		require.NoError(t, err, args[0])
	}
	assert.False(t, fileExists(f.rule("general.mdc")))

	for _, args := range [][]string{{"init"}, {"add", "x"}, {"diff"}, {"tree"}} {
		_, err := run(t, append([]string{"--templates-dir", missing}, args...)...)
		require.ErrorContains(t, err, "templates directory not found", args[0])
	}
}

func TestShow(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "show", "general")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crules init")

	_, err = f.run(t, "init")
	require.NoError(t, err)

	out, err := f.run(t, "show", "general")
	require.NoError(t, err)
	assert.Equal(t, "---\ndescription: General\nglobs: [**/*]\nalwaysApply: true\n---\ngeneral\n", out)

	out, err = f.run(t, "show", "general.mdc", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, `globs: ["**/*"]`)

	_, err = f.run(t, "show", "genral")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean: general?")
}

func TestRemove(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "remove", "general")
	require.NoError(t, err)
	assert.Contains(t, out, "Rules directory not found")

	_, err = f.run(t, "init")
	require.NoError(t, err)

	out, err = f.run(t, "remove", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "nope: rule not found")
	assert.True(t, fileExists(f.rule("general.mdc")))

	out, err = f.run(t, "remove", "general")
	require.NoError(t, err)
	assert.Contains(t, out, "(removed)")
	assert.Contains(t, out, "✓ Removed 1 rule(s)")
	assert.False(t, fileExists(f.rule("general.mdc")))
}

func TestValidate(t *testing.T) {
	f := setup(t)

	_, err := f.run(t, "validate")
	require.Error(t, err)

	_, err = f.run(t, "init")
	require.NoError(t, err)
	out, err := f.run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "(valid)")

	_, err = f.run(t, "add", "empty")
	require.NoError(t, err)
	out, err = f.run(t, "validate")
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.Code(err))
	assert.Contains(t, out, "empty.mdc")
	assert.Contains(t, err.Error(), "1 of 2 rule(s) failed validation")
}

func TestDiff(t *testing.T) {
	f := setup(t)

	out, err := f.run(t, "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "(missing)")

	_, err = f.run(t, "init")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(f.rule("general.mdc"), []byte("local\n"), 0o644))

	out, err = f.run(t, "diff")
	require.NoError(t, err)
	assert.Contains(t, out, "(changed)")
	assert.Contains(t, out, "-local")
	assert.Contains(t, out, "1 changed, 0 missing, 0 unchanged")
}

func TestTree(t *testing.T) {
	f := setup(t)
	nested := filepath.Join(f.templates, "default", "git", "commits.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(nested), 0o755))
	require.NoError(t, os.WriteFile(nested, []byte("commits\n"), 0o644))

	out, err := f.run(t, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Templates: "+f.templates)
	assert.Contains(t, out, "custom (Custom rules)\n└── only.md\n")
	assert.Contains(t, out, "default (Default rules)\n├── general.md\n└── git/\n    └── commits.md\n")
	assert.NotContains(t, out, "README.md")
	assert.NotContains(t, out, "rule.md\n")
	assert.True(t, strings.HasSuffix(out, "2 rule-set(s), 3 template(s)\n"), out)
	assert.False(t, fileExists(f.rule("")))

	out, err = f.run(t, "tree", "--rule-set", "custom")
	require.NoError(t, err)
	assert.NotContains(t, out, "default")
	assert.True(t, strings.HasSuffix(out, "1 rule-set(s), 1 template(s)\n"), out)

	_, err = f.run(t, "tree", "--framework", "missing")
	require.Error(t, err)
	assert.Equal(t, exitcode.Failure, exitcode.Code(err))

	out, err = run(t, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Templates: (bundled)")
	assert.Contains(t, out, "flutter")
}

func TestVersion(t *testing.T) {
	setup(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "crules "), out)
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, out, runtime.Version())
}
