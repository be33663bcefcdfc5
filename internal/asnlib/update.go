package asnlib

import (
	"fmt"
	"io"
	"os"

	"github.com/blang/semver"
	"github.com/manifoldco/promptui"
	"github.com/pterm/pterm"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

const releaseRepository = "taskwire/asana"

var (
	detectLatest = selfupdate.DetectLatest
	updateTo     = selfupdate.UpdateTo
)

type UpdateCommandArguments struct {
	Version       string
	NoInteractive bool
	Check         bool
	Debug         bool
}

func UpdateCommand(out io.Writer, arguments UpdateCommandArguments) error {
	if arguments.Debug {
		selfupdate.EnableLog()
	}

	current, err := semver.Parse(arguments.Version)
	if err != nil {
		return err
	}

	latest, found, err := detectLatest(releaseRepository)
	if err != nil {
		return err
	}
	if !found || current.GE(latest.Version) {
		fmt.Fprintln(out, "Congratulations, you are up to date with v"+
			current.String())
		return nil
	}

	fmt.Fprintf(out, "There is a new latest release for you v%s -> v%s\n",
		current, latest.Version)
	if arguments.Check {
		fmt.Fprintln(out, "Use `asn update` or `asn update --no-interactive` "+
			"command to update to the latest version.")
		fmt.Fprintln(out, "If you want to download and install it manually, "+
			"you can get the asset from")
		fmt.Fprintln(out, latest.AssetURL)
		return nil
	}

	if !arguments.NoInteractive {
		prompt := promptui.Prompt{
			Label:     "Do you want to update",
			IsConfirm: true,
		}
		_, err := prompt.Run()
		if err != nil {
			fmt.Fprintln(out, "Update Cancelled")
			return nil
		}
	}

	exe, err := os.Executable()
	if err != nil {
		fmt.Fprintln(out, "Could not locate executable path")
		return err
	}

	msg := fmt.Sprintf("Updating to v%s", latest.Version)
	spinner, err := pterm.DefaultSpinner.Start(msg)
	if err != nil {
		return err
	}
	err = updateTo(latest.AssetURL, exe)
	if err != nil {
		spinner.Fail("Error occurred while updating binary: " + err.Error())
		return err
	}
	spinner.Success(
		fmt.Sprintf("Successfully updated to version v%s", latest.Version),
	)
	return nil
}
