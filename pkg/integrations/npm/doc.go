// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// This package fetches package documents ("packuments") from the npm
// registry (https://registry.npmjs.org) or any compatible mirror.
//
// # Usage
//
//	client := npm.NewClient(integrations.NewClient(), "")
//
//	doc, err := client.FetchDocument(ctx, "express")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(doc.DistTags.Latest, len(doc.Versions))
//
// # Document
//
// [Client.FetchDocument] returns a [Document] containing:
//
//   - Name: the package name as stored by the registry
//   - DistTags.Latest: the version the registry tags "latest"
//   - Versions: the set of published version keys
//   - Time: publish timestamps keyed by version (plus "created"/"modified")
//
// Per-version manifests are not decoded. Scoped names such as
// "@types/node" are path-escaped before the request is sent.
package npm
