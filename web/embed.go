// Package web embeds the built SvelteKit dashboard for single-binary distribution.
package web

import "embed"

// Assets contains the SvelteKit production build of the campus dashboard.
// The build/ directory is created by `pnpm run build` in the web/ directory;
// the committed index.html is a placeholder until the frontend is built.
//
//go:embed all:build
var Assets embed.FS
