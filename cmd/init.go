package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new relocato registry",
	Long: `Create an example registry.yaml describing the entity catalog: scopes with
their root entity types, entities with fields and relations.

Examples:
  relocato init
`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat("registry.yaml"); err == nil {
			fmt.Println("❌ registry.yaml already exists!")
			return
		}

		content := `# Entity catalog for relocation analysis.
#
# Scopes declare the relocation roots: a relocation operation is defined as
# "bring over a root and everything it needs". Entities without a scope stay
# known for relation resolution but are excluded from relocation accounting.
scopes:
  - name: organization
    roots: [app.organization]
  - name: user
    roots: [app.user]

entities:
  - name: app.user
    table: users
    scope: user
    fields:
      - name: username
        type: text
        unique: true

  - name: app.organization
    table: organizations
    scope: organization
    fields:
      - name: slug
        type: text
        unique: true
      - name: owner
        nullable: true
        relation:
          to: app.user
          kind: cross_domain

  - name: app.team
    table: teams
    scope: organization
    fields:
      - name: organization
        relation:
          to: app.organization
          kind: wrapper
      - name: slug
        type: text
    unique_together:
      - [organization, slug]

  - name: app.project
    table: projects
    scope: organization
    fields:
      - name: team
        relation:
          to: app.team
      # Integer fields named "<entity>_id" resolve implicitly when the name
      # matches a known entity type.
      - name: organization_id
        type: bigint
        nullable: true

  - name: app.webhook
    table: webhooks
    scope: organization
    fields:
      - name: project
        nullable: true
        relation:
          to: app.project
`
		if err := os.WriteFile("registry.yaml", []byte(content), 0644); err != nil {
			fmt.Println("❌ Error creating registry.yaml:", err)
			return
		}
		fmt.Println("✅ Created registry.yaml example file.")
		fmt.Println("📝 Edit registry.yaml to describe your entity catalog")
		fmt.Println("🚀 Run 'relocato graph' to build the dependency graph")
	},
}
