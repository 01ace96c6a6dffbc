// Command ytchan classifies, resolves and tracks YouTube channel references.
//
//	ytchan classify <input>...
//	ytchan resolve [--platform p] [--offline] [--json] <input>...
//	ytchan track <input>...
//	ytchan config init|show
package main
