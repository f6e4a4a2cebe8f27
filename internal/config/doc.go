// Package config provides configuration parsing for sitekit projects.
//
// The configuration is stored in sitekit.yaml at the project root.
//
//	name: marketing
//	site:
//	  title: Vango
//	  basePath: /
//	  lang: en
//	  stylesheets: [/styles.css]
//	content:
//	  dir: content
//	  s3:
//	    bucket: vango-content
//	    prefix: site/
//	server:
//	  host: localhost
//	  port: 4000
//	build:
//	  output: dist
//	publish:
//	  bucket: vango-www
//	  prefix: ""
//	  region: us-east-1
//
// Environment variables override the file: SITEKIT_PORT, SITEKIT_BASE_PATH,
// SITEKIT_S3_BUCKET and SITEKIT_S3_PREFIX (the latter two target publish).
package config
