package setup

import (
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/starfold/paperdesk/config"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1).
			MarginBottom(0)
)

// RunTUI walks the user through first-time configuration and writes the
// result to configPath.
func RunTUI(configPath string) error {
	var (
		provider        string
		finnhubToken    string
		alphaVantageKey string
		listenAddr      string
		quoteTimeoutStr string
		stateDir        string
		confirm         bool
	)

	// defaults
	listenAddr = ":8080"
	quoteTimeoutStr = "10s"
	stateDir = "./data"

	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(headerStyle.Render("PAPERDESK CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Set up your paper-trading desk.\n"))

	// provider
	fmt.Println(stepStyle.Render("STEP 1: MARKET DATA"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose your quote vendor").
				Options(
					huh.NewOption("Finnhub", config.ProviderFinnhub),
					huh.NewOption("Alpha Vantage", config.ProviderAlphaVantage),
				).
				Value(&provider),
		),
	).Run()
	if err != nil {
		return err
	}

	// credentials
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PAPERDESK CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: CREDENTIALS"))
	keyInput := huh.NewInput().
		Title("API Key").
		Description("Left empty, quotes fall back to cost basis").
		EchoMode(huh.EchoModePassword)
	if provider == config.ProviderFinnhub {
		keyInput = keyInput.Value(&finnhubToken)
	} else {
		keyInput = keyInput.Value(&alphaVantageKey)
	}
	err = huh.NewForm(huh.NewGroup(keyInput)).Run()
	if err != nil {
		return err
	}

	// server settings
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PAPERDESK CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: SERVER"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen Address").
				Description("host:port, e.g. :8080").
				Value(&listenAddr).
				Validate(validateListenAddr),
			huh.NewInput().
				Title("Quote Timeout").
				Description("Duration string (e.g. 5s, 10s)").
				Value(&quoteTimeoutStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Data Directory").
				Description("Where ledger state and the trade journal live").
				Value(&stateDir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("directory cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	// confirmation
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("PAPERDESK CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Provider: %s\nListen: %s\nQuote timeout: %s\nData dir: %s\n",
		provider, listenAddr, quoteTimeoutStr, stateDir,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}

	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	quoteTimeout, _ := time.ParseDuration(quoteTimeoutStr)

	cfg := config.Config{
		ListenAddr:      listenAddr,
		Provider:        provider,
		FinnhubToken:    finnhubToken,
		AlphaVantageKey: alphaVantageKey,
		QuoteTimeout:    quoteTimeout,
		StateDir:        stateDir,
		JournalDir:      stateDir + "/journal",
	}

	if err := cfg.WriteFile(configPath); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", configPath)))
	time.Sleep(1500 * time.Millisecond) // small pause to read success message
	return nil
}

func validateListenAddr(s string) error {
	if s == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if _, _, err := net.SplitHostPort(s); err != nil {
		return fmt.Errorf("must be host:port (e.g. :8080)")
	}
	return nil
}
