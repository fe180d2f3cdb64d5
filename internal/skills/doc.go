// Package skills provides the skill catalog: an in-memory registry of skill
// metadata records with search, lookup and install operations, seeded from a
// fixed sample set plus optional JSONC definitions on disk.
package skills
