// Package providers describes LLM HTTP providers and prepares outbound
// requests for them.
//
// # Overview
//
// A provider is described by an Info: its base URL, the wire protocol it
// speaks (WireAPI), where its API key comes from and which headers it needs.
// Four providers are built in (OpenAI, a local Ollama-compatible server,
// Google GenAI and Anthropic); more can be declared in configuration and
// merged into a Registry.
//
// The package decides three things per request:
//
//  1. The URL: base URL plus the protocol's path suffix plus query parameters
//     (FullURL).
//  2. The headers: static headers and headers copied from environment
//     variables (ApplyHeaders).
//  3. The credential: a fixed priority list of bearer token override, API key
//     from the environment, then the stored credential (ResolveAuth).
//
// It also exposes the effective retry and stream timeout policy of a
// provider (RequestMaxRetries, StreamMaxRetries, StreamIdleTimeout). It does
// not send requests or retry them; that is the transport's job.
//
// # Basic Usage
//
//	env := environment.Capture()
//	registry := providers.NewRegistry(providers.BuiltInProviders(env, version.Version), cfg.ModelProviders)
//
//	info, err := registry.Lookup("anthropic")
//	if err != nil {
//	    return err
//	}
//
//	builder := providers.NewRequestBuilder(env)
//	req, err := builder.Build(ctx, info, store.Current(), body)
//	if err != nil {
//	    var missing *providers.MissingEnvVarError
//	    if errors.As(err, &missing) {
//	        fmt.Println(missing.Instructions)
//	    }
//	    return err
//	}
//	resp, err := http.DefaultClient.Do(req)
//
// # Environment
//
// Environment variables are never read from the process directly; every
// function takes an environment.Env. Built-in providers read their overrides
// once, when they are constructed:
//
//   - OPENAI_BASE_URL, OPENAI_ORGANIZATION, OPENAI_PROJECT
//   - SWITCHBOARD_OSS_BASE_URL, SWITCHBOARD_OSS_PORT
//   - GOOGLE_GENAI_BASE_URL, GOOGLE_GENAI_API_KEY
//   - ANTHROPIC_BASE_URL, ANTHROPIC_API_KEY
//
// # Thread Safety
//
// Info values, Registry and RequestBuilder are immutable and safe for
// concurrent use. The only blocking call is fetching the bearer token from
// the credential, which may refresh a managed login over the network.
package providers
