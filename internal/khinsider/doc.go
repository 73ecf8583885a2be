// Package khinsider resolves KHInsider album pages into the list of files to
// download.
//
// The package handles three steps:
//
//  1. Fetching pages, repairing the archive's malformed markup and parsing it
//  2. Reading album metadata (name, formats, songs, artwork) from the album page
//  3. Picking one file per song according to a format preference order
//
// # Resolving an Album
//
//	fetcher := khinsider.NewPageFetcher(client)
//	page, err := fetcher.Fetch(ctx, albumURL)
//	if err != nil {
//	    return err
//	}
//
//	soundtrack := khinsider.NewSoundtrack(albumURL, page, fetcher)
//	files, err := khinsider.Resolve(soundtrack, []string{"flac", "mp3"})
//	if err != nil {
//	    return err // *NonexistentAlbumError or *UnavailableFormatsError
//	}
//	for files.Next(ctx) {
//	    fmt.Println(files.File().URL)
//	}
//	if err := files.Err(); err != nil {
//	    return err
//	}
//
// # Laziness
//
// Resolve performs no network access. Each call to Next fetches at most the
// song pages it needs to produce one file, so a caller that stops early never
// requests the remaining song pages. Song pages and derived album properties
// are cached for the lifetime of their Song or Soundtrack.
package khinsider
