// modx saves individual source artifacts (Apex, triggers, Visualforce,
// Aura, Lightning web components and static resources) to an org through
// the tooling API, outside the packaging pipeline.
//
// Typical usage:
//
//	modx org login -a dev --instance-url https://dev.my.salesforce.com
//	modx deploy apex -p force-app/main/default/classes/Foo.cls
package main

import "modx/cli/cmd"

func main() {
	cmd.Execute()
}
