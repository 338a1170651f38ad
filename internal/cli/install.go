package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/installer"
)

var (
	installName    string
	installSubpath string
)

var installCmd = &cobra.Command{
	Use:   "install <repository|path>",
	Short: "Install a skill into the central repository",
	Long: `Install a skill from a local directory or a git repository.

Repository references may be:
  - owner/repo
  - https://github.com/owner/repo
  - https://github.com/owner/repo/tree/<branch>/<path>
  - any other git URL

A repository that holds several skills under skills/ needs a folder URL or
--subpath; run 'skillshub candidates' to list them.

Examples:
  skillshub install ./my-skill
  skillshub install anthropics/skills --subpath skills/pdf
  skillshub install https://github.com/acme/skills/tree/main/skills/review`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installName, "name", "", "Skill name (defaults to the directory or descriptor name)")
	installCmd.Flags().StringVar(&installSubpath, "subpath", "", "Candidate subpath inside the repository or directory")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ref := args[0]
	var res *installer.InstallResult
	switch {
	case isLocalPath(ref) && installSubpath != "":
		res, err = a.installer.InstallLocalSelection(ctx, ref, installSubpath, installName)
	case isLocalPath(ref):
		res, err = a.installer.InstallLocal(ctx, ref, installName)
	case installSubpath != "":
		res, err = a.installer.InstallGitSelection(ctx, ref, installSubpath, installName)
	default:
		res, err = a.installer.InstallGit(ctx, ref, installName)
	}
	if err != nil {
		return fmt.Errorf("install %s: %w", ref, err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s %s\n", successStyle.Render("Installed"), nameStyle.Render(res.Name))
	_, _ = fmt.Fprintf(out, "  id:   %s\n", res.SkillID)
	_, _ = fmt.Fprintf(out, "  path: %s\n", res.CentralPath)
	_, _ = fmt.Fprintf(out, "\nRun 'skillshub sync %s <tool>' to make it available to a tool.\n", res.Name)
	return nil
}

// isLocalPath reports whether ref names an existing directory.
func isLocalPath(ref string) bool {
	info, err := os.Stat(ref)
	return err == nil && info.IsDir()
}
