package command

// HelpMessage is the static description returned for help intents and appended to
// the response for commands that were not understood.
const HelpMessage = `I can help you manage labels! Here are some commands you can use:

**Change a label**
- "Change About to Contact Us"
- "Rename Home to Welcome"
- "Update Career to Jobs"

**List all labels**
- "Show all labels"
- "List labels"

**Get help**
- "Help"
- "What can you do"

Example: "Change About to Contact Us"`
