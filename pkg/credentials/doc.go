// Package credentials models the stored credentials used to authenticate
// outbound LLM requests.
//
// A Credential is either a plain API key or a managed login (an OAuth-style
// access token that may be refreshed). Credentials are loaded from a JSON
// credential file by Store, which can watch the file and pick up changes
// without a restart:
//
//	store, err := credentials.OpenStore(credentials.StoreOptions{
//	    Path:  "/home/me/.switchboard/auth.json",
//	    Watch: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if cred := store.Current(); cred != nil {
//	    token, err := cred.BearerToken(ctx)
//	    ...
//	}
//
// The credential file must have 0600 or 0400 permissions.
package credentials
