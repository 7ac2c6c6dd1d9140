// Package check runs version lookups for every dependency in a manifest.
//
// [Checker.Check] parses package.json text with [manifest.Parse], resolves all
// entries concurrently through a [Lookuper] (usually a [cache.Cache]), and
// reports progress as each lookup returns. [Apply] writes the chosen upgrade
// candidates back into the manifest text.
//
// [manifest.Parse]: github.com/matzehuels/upgrader/pkg/manifest.Parse
// [cache.Cache]: github.com/matzehuels/upgrader/pkg/cache.Cache
package check
