// Package omdb provides a client for looking up movies by exact title on the
// OMDb API (https://www.omdbapi.com).
//
// # Usage
//
// Create a client with an API key and look a title up:
//
//	logger := zerolog.New(os.Stderr)
//	client, err := omdb.NewClient("your-api-key", logger,
//		omdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	f, err := client.FetchFilm(context.Background(), "The Matrix")
//
// # Error Handling
//
// A title the database does not know comes back as an *APIError, as does any
// non-200 response. Network failures and unreadable bodies wrap ErrTransport:
//
//	var apiErr *omdb.APIError
//	switch {
//	case errors.As(err, &apiErr):
//		// lookup failed, apiErr.Message has the upstream reason
//	case errors.Is(err, omdb.ErrTransport):
//		// the service could not be reached
//	}
package omdb
