package mcpserver

// EntryFormatContract describes the persisted entry format for LLM
// consumers that create or edit entries directly.
const EntryFormatContract = `# Inkwell Entry Format Contract

Every managed entry in the writing inbox MUST follow this structure.

## Structure

` + "```" + `markdown
---
id: "20250115103000"                      # REQUIRED - opaque stable token, assigned once
lastReviewed: 2025-01-15T10:30:00Z        # ISO-8601, updated on every rating
nextReview: 2025-01-16T10:30:00Z          # ISO-8601, computed by the scheduler
lastModified: 2025-01-15T10:30:00Z        # ISO-8601, advanced only by system writes
interval: 1                               # days, >= 1
easeFactor: 2.5                           # float, >= 1.3
repetitions: 0                            # integer, >= 0
status: active                            # active | archived
---

Free-form Markdown body. The first line seeds the file name.
` + "```" + `

## Rules

1. **The metadata block is mandatory.** The ` + "`" + `---` + "`" + ` fences must be the
   first thing in the file.
2. **` + "`" + `id` + "`" + ` is required.** Files without an id are treated as unrelated
   text and skipped by the scheduler.
3. **Scheduling fields are clamped on read.** Hand-edited out-of-range
   values are corrected, never trusted.
4. **Do not advance ` + "`" + `lastModified` + "`" + ` by hand.** The system compares it
   against the file's modification time to detect manual edits.
5. **Folders:** active entries live in ` + "`" + `entries/` + "`" + `, archived ones in
   ` + "`" + `archive/` + "`" + `. Archiving is a metadata update plus a move; records are
   never deleted.
6. **File names** are ` + "`" + `{local-date}-{slug-of-first-line}.md` + "`" + ` (slug
   lower-cased, non-alphanumerics stripped, max 50 characters).
7. **Encoding** is UTF-8 with a trailing newline.

## Ratings

Reviews accept exactly three ratings:

- ` + "`" + `fruitful` + "`" + ` - the entry sparked new writing; it resurfaces sooner.
- ` + "`" + `skip` + "`" + ` - defer at moderate spacing.
- ` + "`" + `unfruitful` + "`" + ` - nothing left to give; maximum spacing.
`
