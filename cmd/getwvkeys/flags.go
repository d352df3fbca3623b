package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/getwvkeys/getwvkeys"
)

type options struct {
	url       string
	pssh      string
	apiKey    string
	apiURL    string
	buildInfo string
	headers   map[string]string
	verbose   bool
	force     bool
	version   bool
}

func (o *options) params() getwvkeys.Params {
	return getwvkeys.Params{
		LicenseURL: o.url,
		PSSH:       strings.TrimSpace(o.pssh),
		APIKey:     o.apiKey,
		BuildInfo:  o.buildInfo,
		Force:      o.force,
		Verbose:    o.verbose,
		Headers:    o.headers,
	}
}

// parseFlags accepts both -name and --name for every flag, as the flag
// package does.
func parseFlags(args []string, output io.Writer) (*options, *flag.FlagSet, error) {
	o := &options{headers: make(map[string]string)}

	fs := flag.NewFlagSet("getwvkeys", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), `Usage: getwvkeys -url LICENSE_URL -pssh PSSH -api_key API_KEY [options]

Requests a license challenge from the GetWVKeys API, sends it to the license
server and prints the keys returned by the API. Missing url, pssh and api key
are asked for interactively.

Environment: %[1]s_API_URL, %[1]s_API_KEY, %[1]s_API_TIMEOUT,
%[1]s_LICENSE_TIMEOUT, %[1]s_LOG_LEVEL (also read from ./.env).

`, "GETWVKEYS")
		fs.PrintDefaults()
	}

	fs.StringVar(&o.url, "url", "", "License URL")
	fs.StringVar(&o.pssh, "pssh", "", "PSSH")
	fs.StringVar(&o.apiKey, "api_key", "", "GetWVKeys API Key")
	fs.StringVar(&o.apiKey, "auth", "", "GetWVKeys API Key (deprecated, use -api_key)")
	fs.StringVar(&o.apiURL, "api_url", "", "GetWVKeys API base URL (default "+getwvkeys.DefaultAPIURL+")")
	fs.StringVar(&o.buildInfo, "buildinfo", "", "Buildinfo")
	fs.StringVar(&o.buildInfo, "b", "", "Buildinfo (shorthand)")
	fs.BoolVar(&o.verbose, "verbose", false, "increase output verbosity")
	fs.BoolVar(&o.verbose, "v", false, "increase output verbosity (shorthand)")
	fs.BoolVar(&o.force, "force", false, "Force fetch, bypasses cache (You should only use this if the cached keys are not working)")
	fs.BoolVar(&o.force, "f", false, "Force fetch (shorthand)")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	fs.BoolVar(&o.version, "V", false, "Print version and exit (shorthand)")

	addHeader := func(s string) error {
		name, value, ok := strings.Cut(s, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("header %q is not in \"Name: value\" form", s)
		}
		o.headers[name] = strings.TrimSpace(value)
		return nil
	}
	fs.Func("header", "extra license server header \"Name: value\" (repeatable)", addHeader)
	fs.Func("H", "extra license server header (shorthand)", addHeader)

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		_, _ = fmt.Fprintln(output, err)
		fs.Usage()
		return nil, fs, err
	}

	return o, fs, nil
}
