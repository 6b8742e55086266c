// Package manifest interprets racoon manifests.
//
// A manifest lists files to fetch and other manifests to include:
//
//	name: toolchain
//	before:
//	  files:
//	    - url: https://example.com/keys.txt
//	      destination: keys.txt
//	files:
//	  - url: https://example.com/tool.zip
//	    destination: tool.zip
//	    headers:
//	      Authorization: Bearer abc
//	    verify:
//	      digest:
//	        algorithm: sha256
//	        file:
//	          url: https://example.com/tool.zip.sha256
//	      archive:
//	        contains: [bin/tool, LICENSE]
//	after:
//	  files: []
//	includes:
//	  - url: file:///srv/manifests/extra.yaml
//
// # Evaluation
//
// A Resolver evaluates one manifest level at a time: before.files, files
// and after.files in order, then each include depth-first. An include URL
// may appear only once per Resolver; a second occurrence stops the run with
// ErrDuplicateInclude. A missing include file is skipped.
//
// # Failures
//
// Format, security and duplicate-include errors stop evaluation and are
// returned from Evaluate. A file that cannot be fetched or fails
// verification is removed and skipped; observers see it as an error
// notification.
package manifest
