package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"jokesdk/pkg/jokes"
)

var (
	listLimit int
	listType  string
	listClean bool
)

// randomCmd fetches one random joke
var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Fetch a random joke",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

// listCmd lists jokes with optional filters
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jokes",
	Long: `List jokes from the service.

Results can be limited, filtered by type, or restricted to
family-friendly jokes.`,
	Example: `  # First ten jokes
  jokes list --limit 10

  # Programming jokes only
  jokes list --type programming

  # Family-friendly jokes
  jokes list --clean`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// searchCmd searches setups and punchlines
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search jokes by text",
	Long:  `Search jokes whose setup or punchline contains the query, case-insensitively.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

// getCmd fetches a single joke by id
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a joke by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(getCmd)

	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of jokes to show")
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "only jokes of this type")
	listCmd.Flags().BoolVar(&listClean, "clean", false, "only family-friendly jokes")

	searchCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of results")
}

func runRandom(cmd *cobra.Command, args []string) error {
	client, _, err := newJokesClient()
	if err != nil {
		return err
	}

	joke, err := client.Random(cmd.Context())
	if err != nil {
		return err
	}

	printJoke(*joke)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	client, _, err := newJokesClient()
	if err != nil {
		return err
	}

	var list []jokes.Joke
	if listClean {
		list, err = client.Clean(cmd.Context(), listLimit)
	} else {
		list, err = client.List(cmd.Context(), listLimit)
	}
	if err != nil {
		return err
	}

	if listType != "" {
		list = jokes.FilterByType(list, listType)
	}

	printJokes(list)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	client, _, err := newJokesClient()
	if err != nil {
		return err
	}

	matches, err := client.Search(cmd.Context(), args[0], listLimit)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No jokes matched.")
		return nil
	}
	printJokes(matches)
	return nil
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid joke id %q", args[0])
	}

	client, _, err := newJokesClient()
	if err != nil {
		return err
	}

	joke, err := client.GetByID(cmd.Context(), id)
	if err != nil {
		return err
	}

	printJoke(*joke)
	return nil
}

func printJoke(joke jokes.Joke) {
	fmt.Println(joke.Setup)
	fmt.Println("  ...", joke.Punchline)
}

func printJokes(list []jokes.Joke) {
	for i, joke := range list {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("#%d", joke.ID)
		if joke.Type != "" {
			fmt.Printf(" [%s]", joke.Type)
		}
		fmt.Println()
		printJoke(joke)
	}
	fmt.Printf("\n%d joke(s)\n", len(list))
}
