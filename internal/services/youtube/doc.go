// Package youtube uploads rendered briefings with the YouTube Data API v3,
// sets their thumbnails and files them into per-topic playlists.
//
// Credentials come either from an installed-app client secrets JSON plus a
// stored token file, or from a client id, secret and refresh token. Refreshed
// tokens are written back to the token file. Interactive authorization is not
// handled here; the token file must already exist.
package youtube
