// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ScriptNotFoundId Id = iota + 1
	InterpreterNotFoundId
	LaunchFailedId
	ConfigLoadFailedId
	InvalidFrameworkArgumentId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue as terminal Markdown using a glamour style
// ("auto", "dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- " + string(link) + "\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# Script not found!

The script you asked to run does not exist or is a directory.

## Things you can try:
- Check the path; relative paths are resolved from the working directory
- If 'runtime.work_dir' is set in your config, paths are resolved from there`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Interpreter not found!

The runtime binary used to start scripts is not on your PATH.

## Things you can try:
- Install it, or point scriptrun at it:
~~~
$ export SCRIPTRUN_RUNTIME_INTERPRETER=/usr/local/bin/node
~~~
- Check the 'runtime.interpreter' value in your config`,
		docLinks: []HttpLink{"https://nodejs.org/en/download"},
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# The script could not be started!

The child process failed to launch. It was not retried.

## Things you can try:
- Run again with --verbose to see the full error chain
- Use --dry-run to inspect the exact command line and environment`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show where configuration is read from:
~~~
$ scriptrun config path
~~~
- Recreate a default file with 'scriptrun config init'
- Check SCRIPTRUN_* environment variables`,
	}

	invalidFrameworkArgumentIssue = &Issue{
		id: InvalidFrameworkArgumentId,
		mdMsg: `
# Invalid framework argument!

A HARDHAT_* environment variable holds a value that cannot be parsed.

## Things you can try:
- Booleans accept true/false/1/0
- HARDHAT_MAX_MEMORY must be a non-negative integer`,
	}

	issues = map[Id]*Issue{
		scriptNotFoundIssue.Id():           scriptNotFoundIssue,
		interpreterNotFoundIssue.Id():      interpreterNotFoundIssue,
		launchFailedIssue.Id():             launchFailedIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		invalidFrameworkArgumentIssue.Id(): invalidFrameworkArgumentIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
