package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-generator/internal/i18n"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Resolve a translation key",
	Long: `Looks up a dotted key in the bundled translation tables. Unsupported languages
and missing keys fall back to English; an unknown key prints the key itself.`,
	Example: `  site_agent translate --lang de --key nav.home
  site_agent translate --lang fr --key form.success --param name=Ada`,
	RunE: runTranslate,
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Print the localized URLs of a page",
	RunE:  runLinks,
}

var (
	translateLang   string
	translateKey    string
	translateParams []string
	linksPath       string
)

func init() {
	translateCmd.Flags().StringVarP(&translateLang, "lang", "l", string(i18n.DefaultLocale), "Language code")
	translateCmd.Flags().StringVarP(&translateKey, "key", "k", "", "Dotted translation key, e.g. nav.home")
	translateCmd.Flags().StringArrayVarP(&translateParams, "param", "p", nil, "Interpolation parameter as name=value (repeatable)")
	_ = translateCmd.MarkFlagRequired("key")

	linksCmd.Flags().StringVar(&linksPath, "path", "/", "Page path, with or without a language prefix")

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(linksCmd)
}

func runTranslate(cmd *cobra.Command, _ []string) error {
	translator, err := i18n.Embedded()
	if err != nil {
		return err
	}
	return translate(cmd.OutOrStdout(), translator, translateLang, translateKey, translateParams)
}

func translate(out io.Writer, translator *i18n.Translator, lang, key string, rawParams []string) error {
	params, err := parseParams(rawParams)
	if err != nil {
		return err
	}

	locale, ok := i18n.ParseLocale(lang)
	if !ok {
		_, _ = warnColor.Fprintf(out, "! %q is not supported, using %s\n", lang, locale)
	}
	_, err = fmt.Fprintln(out, translator.Translate(locale, key, params))
	return err
}

// parseParams turns name=value pairs into a parameter map.
func parseParams(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	params := make(map[string]string, len(raw))
	for _, p := range raw {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", p)
		}
		params[name] = value
	}
	return params, nil
}

func runLinks(cmd *cobra.Command, _ []string) error {
	return printLinks(cmd.OutOrStdout(), linksPath)
}

func printLinks(out io.Writer, path string) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	current := i18n.LangFromPath(path)
	for _, link := range i18n.AlternateLinks(path) {
		marker := " "
		if link.Lang == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, link.Lang, link.URL, link.Label)
	}
	return tw.Flush()
}
