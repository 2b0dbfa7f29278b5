package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"
	"gorm.io/gorm"

	"github.com/Einzelgaanger/darasa/core/rank"
	"github.com/Einzelgaanger/darasa/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *gorm.DB
	usrSvc  *user.Service
	rankSvc *rank.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate - apply database migrations")
	fmt.Println("  adduser -name NAME -admission ADMISSION_NO [-email EMAIL] [-admin] - create a user; the password is prompted next")
	fmt.Println("  refreshranks - recompute and cache the overall rank of every user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserAdmNo := addUserCmd.String("admission", "", "The user's admission number.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")
	addUserIsAdmin := addUserCmd.Bool("admin", false, "Grant the user all roles.")

	switch args[1] {
	case "migrate":
		return cli.migrate()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserAdmNo == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserAdmNo, *addUserEmail, string(pwd), *addUserIsAdmin)
	case "refreshranks":
		return cli.refreshRanks()
	default:
		cli.printUsage()
		return errHelp
	}
}
