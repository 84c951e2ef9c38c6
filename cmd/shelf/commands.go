package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
)

// readPassword is swapped out in tests to avoid touching the terminal
var readPassword = term.ReadPassword

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "shelf",
		Short:         "A terminal library desk for books, students and loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default "+adapter.DefaultConfigFile()+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Start the interactive interface",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runTUI(cmd, configFile)
			},
		},
		newBooksCmd(&configFile),
		newLoansCmd(&configFile),
		newStudentsCmd(&configFile),
		newConfigCmd(&configFile),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "shelf %s\n", Version)
			},
		},
	)
	return root
}

// withApp opens the library for the duration of fn
func withApp(cmd *cobra.Command, configFile string, fn func(*app) error) error {
	a, err := openApp(cmd.Context(), configFile)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func newBooksCmd(configFile *string) *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "List, search and add catalog titles",
	}

	var category, sortBy string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configFile, func(a *app) error {
				field := a.sort
				if sortBy != "" {
					f, err := search.ParseSortField(sortBy)
					if err != nil {
						return err
					}
					field = f
				}
				rows := a.search.Browse(search.Options{Category: category, Sort: field})
				return printBooks(cmd.OutOrStdout(), rows)
			})
		},
	}
	list.Flags().StringVar(&category, "category", search.AllCategories, "only show this category")
	list.Flags().StringVar(&sortBy, "sort", "", "sort by title, author, year or availability")

	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search titles, authors, categories and ISBNs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withApp(cmd, *configFile, func(a *app) error {
				rows := a.search.Browse(search.Options{Query: query, Sort: a.sort})
				if len(rows) > 0 {
					return printBooks(cmd.OutOrStdout(), rows)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "No books match %q\n", query)
				if hints := a.search.Suggest(query, 3); len(hints) > 0 {
					fmt.Fprintf(out, "Did you mean: %s\n", strings.Join(hints, ", "))
				}
				return nil
			})
		},
	}

	var nb domain.NewBook
	var password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a title (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configFile, func(a *app) error {
				if password == "" {
					pw, err := promptPassword(cmd.ErrOrStderr())
					if err != nil {
						return fmt.Errorf("failed to read password: %w", err)
					}
					password = pw
				}
				if err := a.lib.AuthenticateAdmin(a.cfg.Admin.Username, password); err != nil {
					return err
				}
				book, err := a.lib.AddBook(nb)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q (id %s, %d copies)\n", book.Title, book.ID, book.TotalCopies)
				return nil
			})
		},
	}
	add.Flags().StringVar(&nb.Title, "title", "", "book title")
	add.Flags().StringVar(&nb.Author, "author", "", "author")
	add.Flags().StringVar(&nb.ISBN, "isbn", "", "ISBN")
	add.Flags().StringVar(&nb.Category, "category", "", "category")
	add.Flags().IntVar(&nb.TotalCopies, "copies", 1, "number of copies")
	add.Flags().IntVar(&nb.PublishedYear, "year", 0, "publication year")
	add.Flags().StringVar(&password, "password", "", "admin password (prompted when omitted)")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("author")

	books.AddCommand(list, searchCmd, add)
	return books
}

func newLoansCmd(configFile *string) *cobra.Command {
	loans := &cobra.Command{
		Use:   "loans",
		Short: "Inspect issued books",
	}

	overdue := &cobra.Command{
		Use:   "overdue",
		Short: "List loans past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configFile, func(a *app) error {
				now := a.queries.Now()
				views := a.queries.OverdueLoans(now)
				out := cmd.OutOrStdout()
				if len(views) == 0 {
					fmt.Fprintln(out, "No overdue loans")
					return nil
				}

				t := newTable("Book", "Student", "Roll No", "Due", "Days late")
				for _, v := range views {
					roll := ""
					if v.Student != nil {
						roll = v.Student.RollNo
					}
					t.Row(v.BookTitle(), v.StudentName(), roll,
						v.Loan.DueDate.Format("2006-01-02"),
						strconv.Itoa(-v.Loan.DaysUntilDue(now)))
				}
				fmt.Fprintln(out, t)
				return nil
			})
		},
	}

	loans.AddCommand(overdue)
	return loans
}

func newStudentsCmd(configFile *string) *cobra.Command {
	students := &cobra.Command{
		Use:   "students",
		Short: "Inspect registered students",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List students and their active loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configFile, func(a *app) error {
				t := newTable("Name", "Username", "Roll No", "Active")
				for _, s := range a.queries.Students() {
					t.Row(s.Name, s.Username, s.RollNo, strconv.Itoa(a.queries.ActiveLoanCount(s.ID)))
				}
				fmt.Fprintln(cmd.OutOrStdout(), t)
				return nil
			})
		},
	}

	students.AddCommand(list)
	return students
}

func newConfigCmd(configFile *string) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := *configFile
			if file == "" {
				file = adapter.DefaultConfigFile()
			}
			if _, err := os.Stat(file); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", file)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := adapter.SaveConfig(adapter.DefaultConfig(), file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", file)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cfgCmd.AddCommand(initCmd)
	return cfgCmd
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Admin password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func printBooks(w io.Writer, books []domain.Book) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, "No books")
		return err
	}
	t := newTable("ID", "Title", "Author", "Category", "Year", "Available")
	for _, b := range books {
		year := ""
		if b.PublishedYear > 0 {
			year = strconv.Itoa(b.PublishedYear)
		}
		t.Row(b.ID, b.Title, b.Author, b.Category, year,
			fmt.Sprintf("%d/%d", b.AvailableCopies, b.TotalCopies))
	}
	_, err := fmt.Fprintln(w, t)
	return err
}
