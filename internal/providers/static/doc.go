// Package static implements providers.Source and providers.Indexer over
// plain HTTP. Pages are parsed with goquery as served, without running
// scripts, which is enough for GitHub's server-rendered markdown.
package static
