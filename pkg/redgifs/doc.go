// Package redgifs is a minimal client for the RedGifs v2 API.
//
// A Client is the session context for one run: it carries the default
// headers and, after Authenticate, the guest bearer token. All requests go
// through it, including the CDN fetches of pre-signed video URLs.
//
//	client := redgifs.NewClient(redgifs.Options{}, log)
//	if err := client.Authenticate(ctx); err != nil {
//	    return err
//	}
//	page, err := client.FetchUserPage(ctx, "exampleuser", 1)
//	if errors.IsNotFound(err) {
//	    // the profile does not exist
//	}
//	for _, gif := range page.Gifs {
//	    url, err := gif.URL(redgifs.QualityHD)
//	    body, err := client.OpenMedia(ctx, url)
//	    ...
//	}
//
// Every non-2xx status is returned as a *errors.Error; nothing is retried.
package redgifs
