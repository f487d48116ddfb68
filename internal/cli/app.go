package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Client — операции gRPC API, которыми пользуется CLI.
type Client interface {
	Create(ctx context.Context, name, username, password string) (models.Account, error)
	Login(ctx context.Context, username, password string) (models.Account, error)
	Logout(ctx context.Context, username string) (models.Account, error)
	LogoutByID(ctx context.Context, id int64) (models.Account, error)
	Get(ctx context.Context, id int64) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	Edit(ctx context.Context, id int64, username, birthday *string) (models.Account, error)
}

// WatchFunc печатает события аккаунтов в out до отмены ctx.
type WatchFunc func(ctx context.Context, out io.Writer) error

// ErrUsage возвращается при неверных аргументах команды.
var ErrUsage = errors.New("invalid usage")

const usage = `Usage: accountctl [-addr host:port] <command> [args]

Commands:
  register [-name N] [-username U] [-password P]   create an account
  login [-username U] [-password P]                log in and print a new token
  logout <id|username>                             log out
  get <id>                                         show an account
  list                                             list all accounts
  edit <id> [-username U] [-birthday YYYY-MM-DD]   change username and/or birthday
  watch                                            print account events from RabbitMQ
`

// App выполняет одну команду accountctl.
type App struct {
	client Client
	watch  WatchFunc
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// New создает App. watch может быть nil, тогда команда watch недоступна.
func New(client Client, watch WatchFunc, in io.Reader, out, errOut io.Writer) *App {
	return &App{
		client: client,
		watch:  watch,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

// Usage печатает справку по командам.
func (a *App) Usage() {
	fmt.Fprint(a.errOut, usage)
}

// Execute выполняет команду args[0] с аргументами args[1:].
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.Usage()
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout(ctx, rest)
	case "get":
		return a.get(ctx, rest)
	case "list":
		return a.list(ctx)
	case "edit":
		return a.edit(ctx, rest)
	case "watch":
		if a.watch == nil {
			return fmt.Errorf("%w: watch requires -amqp", ErrUsage)
		}
		return a.watch(ctx, a.out)
	case "help", "-h", "--help":
		a.Usage()
		return nil
	default:
		a.Usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	name := fs.String("name", "", "display name")
	username := fs.String("username", "", "login")
	password := fs.String("password", "", "password, read from the terminal when empty")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if err := a.fill(name, "Name"); err != nil {
		return err
	}
	if err := a.fill(username, "Username"); err != nil {
		return err
	}
	if err := a.fillPassword(password); err != nil {
		return err
	}

	acc, err := a.client.Create(ctx, *name, *username, *password)
	if err != nil {
		return err
	}
	return a.printAccount(response.NewAccountWithToken(acc))
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	username := fs.String("username", "", "login")
	password := fs.String("password", "", "password, read from the terminal when empty")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if err := a.fill(username, "Username"); err != nil {
		return err
	}
	if err := a.fillPassword(password); err != nil {
		return err
	}

	acc, err := a.client.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	return a.printAccount(response.NewAccountWithToken(acc))
}

func (a *App) logout(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: logout <id|username>", ErrUsage)
	}

	var (
		acc models.Account
		err error
	)
	if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
		acc, err = a.client.LogoutByID(ctx, id)
	} else {
		acc, err = a.client.Logout(ctx, args[0])
	}
	if err != nil {
		return err
	}
	return a.printAccount(response.NewAccount(acc))
}

func (a *App) get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: get <id>", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	acc, err := a.client.Get(ctx, id)
	if err != nil {
		return err
	}
	return a.printAccount(response.NewAccount(acc))
}

func (a *App) list(ctx context.Context) error {
	accs, err := a.client.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tSTATUS\tBIRTHDAY")
	for _, acc := range accs {
		birthday := "-"
		if acc.Birthday != nil {
			birthday = acc.Birthday.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", acc.ID, acc.Name, acc.Username, acc.Status, birthday)
	}
	return tw.Flush()
}

func (a *App) edit(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: edit <id> [-username U] [-birthday YYYY-MM-DD]", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	fs := a.flagSet("edit")
	username := fs.String("username", "", "new username")
	birthday := fs.String("birthday", "", "birthday, YYYY-MM-DD")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	var usernamePtr, birthdayPtr *string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "username":
			usernamePtr = username
		case "birthday":
			birthdayPtr = birthday
		}
	})
	if birthdayPtr != nil {
		if _, err := models.ParseBirthday(*birthdayPtr); err != nil {
			return fmt.Errorf("%w: birthday must be YYYY-MM-DD", ErrUsage)
		}
	}

	acc, err := a.client.Edit(ctx, id, usernamePtr, birthdayPtr)
	if err != nil {
		return err
	}
	return a.printAccount(response.NewAccount(acc))
}

func (a *App) fill(v *string, label string) error {
	if *v != "" {
		return nil
	}
	s, err := prompt(a.in, a.errOut, label)
	if err != nil {
		return fmt.Errorf("read %s: %w", label, err)
	}
	*v = s
	return nil
}

func (a *App) fillPassword(v *string) error {
	if *v != "" {
		return nil
	}
	s, err := promptPassword(a.in, a.errOut)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	*v = s
	return nil
}

func (a *App) printAccount(view response.Account) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", ErrUsage)
	}
	return id, nil
}
