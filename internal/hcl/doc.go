// Package hcl implements config.Loader for HCL files.
//
// A configuration file may contain one `settings` block and any number of
// `filter` blocks:
//
//	settings {
//	  default_view    = "clustered-sea-of-nodes"
//	  node_text       = "[idx] [name]"
//	  node_short_text = "[name]"
//	  node_tiny_text  = "[idx]"
//	}
//
//	filter "phis" {
//	  chain = "primary"
//	  rule {
//	    property = "name"
//	    pattern  = "Phi"
//	    color    = colors.orange
//	  }
//	}
//
// Rule colors are HCL expressions evaluated against a context exposing the
// `colors` object (white, orange, green, red, black); any "#RRGGBB" string is
// accepted as well. When several files are loaded, settings from later files
// override earlier ones attribute by attribute, and filters accumulate.
package hcl
