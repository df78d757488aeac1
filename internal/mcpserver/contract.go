package mcpserver

// DayFileFormat describes the month files of the days directory and how
// day infos are rendered as tooltips.
const DayFileFormat = `# daycal Day File Format

Each month of day infos lives in one YAML file named ` + "`" + `YYYY-MM.yaml` + "`" + ` at the
top of the days directory (no sub-folders).

## Structure

` + "```" + `yaml
days:
  - date: 2022-10-25        # REQUIRED – ISO-8601 date inside the file's month
    header: Birthday        # OPTIONAL – one line
    content:                # OPTIONAL – list of lines
      - cake at 5
      - call grandma
` + "```" + `

## Rules

1. **One file per month.** A date outside the file's month makes the whole file invalid.
2. **A date listed twice** keeps its last entry.
3. **Blank lines** in ` + "`" + `content` + "`" + ` and a blank ` + "`" + `header` + "`" + ` are dropped.
4. **A day with no header and no content** is removed; a month with no days loses its file.
5. **Encoding** is UTF-8.

## Tooltip rendering

A day with an info shows ` + "`" + `<day> <Month> - <header>` + "`" + ` followed by one
` + "`" + ` - <line>` + "`" + ` per content line. Without a header the first content line takes
its place. A day without an info shows ` + "`" + `<day> <Month>` + "`" + ` only.

## Example tooltip

` + "```" + `text
25 October - Birthday
 - cake at 5
 - call grandma
` + "```" + `
`
