package sys

// --- Message Constants ---

const (
	// --- Infrastructure & Lifecycle ---
	MsgConfigFailedToLoad    = "Failed to load config: %v"
	MsgConfigMissingToken    = "DISCORD_TOKEN is not set in .env file"
	MsgConfigInvalidGuildID  = "invalid GUILD_ID: must be a valid Snowflake"
	MsgConfigInvalidMailPort = "invalid MAIL_PORT: %q"
	MsgSettingsFailedToLoad  = "Failed to load settings: %v"
	MsgSettingsMissing       = "settings file %s not found"
	MsgDatabaseInitSuccess   = "Database initialized successfully"
	MsgDatabaseInitFail      = "Failed to initialize database: %v"
	MsgDatabaseTableError    = "Failed to create table: %w"
	MsgDatabasePragmaError   = "Failed to set pragma %s: %w"
	MsgDaemonStarting        = "Starting..."
	MsgDaemonShutdown        = "Shutting down all daemons..."
	MsgBotStarting           = "Starting %s..."
	MsgBotReady              = "%s is ready! (ID: %s) (PID: %d) (Took: %dms)"
	MsgBotShutdown           = "Shutting down %s..."
	MsgBotKillingOld         = "Killing running instance... (PID: %d)"
	MsgBotOldTerminated      = "Old instance terminated."
	MsgBotStubbornOld        = "Old process %d is stubborn. Sending SIGKILL..."
	MsgBotRegisterFail       = "Command registration failed: %v"
	MsgBotSkipReg            = "Skipping command registration as requested."
	MsgBotClientCreateFail   = "failed to create Discord client: %w"
	MsgBotGatewayFail        = "failed to open gateway: %w"
	MsgPIDOpenFail           = "Failed to open PID file: %v"
	MsgPIDLockFail           = "Failed to lock PID file: %v"
	MsgPanicFatal            = "\n[FATAL] %s\n"
	MsgGenericError          = "%v"
	BotPIDFile               = ".bot.pid"

	// --- Command Loader & Registry ---
	MsgLoaderSyncCommands       = "Syncing %s commands..."
	MsgLoaderUpToDate           = "[LOADER] Commands are up to date. (Hash: %s)"
	MsgLoaderCleanup            = "[CLEANUP] Removing commands from previous dev guild: %s"
	MsgLoaderDevStarting        = "[DEV] Registering commands to guild: %s"
	MsgLoaderDevRegistered      = "[DEV] Registered: %s"
	MsgLoaderDevFail            = "[DEV] Registration failed: %v"
	MsgLoaderDevGlobalClear     = "[DEV] Verifying global commands are cleared..."
	MsgLoaderDevGlobalClearFail = "[DEV] Global clear skipped (likely rate limited): %v"
	MsgLoaderProdStarting       = "[PROD] Registering commands globally..."
	MsgLoaderProdRegistered     = "[PROD] Registered: %s"
	MsgLoaderProdFail           = "[PROD] Global registration failed: %w"
	MsgLoaderInvalidGuildID     = "invalid GUILD_ID: %w"
	MsgLoaderPanicRecovered     = "Panic recovered in handler: %v"

	// --- Registration ---
	MsgRegistrationReady          = "Registration is ready (codes: %s)"
	MsgRegistrationNotReady       = "Registration is not ready yet. Try again in a moment."
	MsgRegistrationSetupFail      = "Failed to set up registration: %v"
	MsgRegistrationBlocked        = "Registration blocked for %s (index %s)"
	MsgRegistrationPrompted       = "Code prompt opened for %s (index %s, mail sent: %t)"
	MsgRegistrationCompleted      = "User %s has been registered (index %s)"
	MsgRegistrationWrongCode      = "Wrong code entered by %s"
	MsgRegistrationFailed         = "Registration of %s failed: %v"
	MsgRegistrationStoreFail      = "Registration store failure for %s: %v"
	MsgRegistrationRoleFail       = "Failed to grant verified role to %s: %v"
	MsgRegistrationNoticeFail     = "Failed to post registration notice: %v"
	MsgRegistrationModalFail      = "Failed to open code modal for %s: %v"
	MsgRegistrationOperatorsFail  = "Failed to notify operators: %v"
	MsgRegistrationDeliveryNotice = "**Verification email failed**\n> Member: <@%s>\n> Index: `%s`\n> Address: `%s`\n> Error: `%v`"
	MsgRegistrationNoticeTitle    = "## New registration!\n"
	MsgRegistrationNoticeBody     = "> Member: <@%s>\n> Name: `%s`\n> Index: `%s`\n> ID: `%s`\n"
	MsgRegistrationNoticeField    = "> %s: %s\n"
	MsgRegistrationSuccess        = "**Registered.**\nVisit the information channel for more details."
	MsgRegistrationCodeWrong      = "**The entered code is incorrect!**"
	MsgRegistrationAttemptGone    = "This registration attempt is no longer valid. Use `/register` again."
	MsgRegistrationMailFailed     = "Failed to send the email with the code.\nTry again later.\nSorry for the trouble."
	MsgRegistrationGenericFail    = "Registration failed. Try again later."
	MsgRegistrationInvalidIndex   = "The index number must consist of 6 digits!"
	MsgRegistrationModalTitle     = "Registration"
	MsgRegistrationCodeLabel      = "Enter the code:"
	MsgRegistrationCodeHint       = "sent to %s"
	MsgRegistrationNonStudent     = "Why are you here?"
	MsgRegistrationNonStudentHint = "You are not on the list. Another year? Think it is a mistake? Tell us here!"
	MsgRegistrationOtherAccount   = "What do you need another account for?"
	MsgRegistrationOtherHint      = "You already have %d. Which account should be the main one?"
	MsgMailSent                   = "Email with code %s has been sent to %s"
	MsgMailTemplateFallback       = "Email template %s not found, using the built-in one"

	// --- Member Info ---
	MsgWhoisNoMatch        = "No members found matching the argument: %s"
	MsgWhoisTooMany        = "Found %d members matching the argument: %s. Showing only 10."
	MsgWhoisCard           = "### User information\n> %s (<@%s>)\n"
	MsgWhoisField          = "> **%s:** %s\n"
	MsgWhoisRoles          = "> **Roles:** %s\n"
	MsgMemberEditTitle     = "Edit member info"
	MsgMemberEditSaved     = "The member's data has been edited."
	MsgMemberEditFail      = "Failed to save the member's data."
	MsgMemberEditBadID     = "Invalid member ID."
	MsgMemberEditLoadFail  = "Failed to load member data for %s: %v"
	MsgMemberStoreQueryErr = "Failed to query registered members: %v"

	// --- Voice Pool ---
	MsgVoiceCategoryMissing = "Voice category %s not found in cache"
	MsgVoiceCreated         = "Created voice channel %q"
	MsgVoiceCreateFail      = "Failed to create voice channel: %v"
	MsgVoiceDeleted         = "Deleted empty voice channel %s"
	MsgVoiceDeleteFail      = "Failed to delete voice channel %s: %v"
	MsgVoiceNotOnPool       = "You must be in one of the managed voice channels."
	MsgVoiceLimitChanged    = "The limit has been changed to %d."
	MsgVoiceNameChanged     = "The name has been changed to %s."
	MsgVoiceUpdateFail      = "Failed to update the voice channel: %v"
	MsgVoiceRenameLimited   = "The name of the channel can be changed max 2 times per 10 minutes."

	// --- Registration Channel Janitor ---
	MsgJanitorCleared    = "Cleared %d stale messages from the registration channel"
	MsgJanitorDeleteFail = "Failed to delete message %s: %v"
	MsgJanitorFetchFail  = "Failed to fetch registration channel history: %v"

	// --- Bot Status ---
	MsgStatusLoaded      = "Status set to %s %q"
	MsgStatusDefault     = "Status could not be loaded, using the default: %v"
	MsgStatusUpdateFail  = "Failed to update presence: %v"
	MsgStatusSaveFail    = "Failed to save the status: %v"
	MsgStatusChanged     = "Status has been changed to: **%s *%s***"
	MsgStatusChangeFail  = "Failed to change the status."
	MsgStatusInvalidType = "Unknown activity type: %s"

	// --- Role Assignment ---
	MsgRolesLoaded       = "'%s' role message loaded"
	MsgRolesBadRef       = "Stored role message of '%s' is invalid: %v"
	MsgRolesChanged      = "%s took role %s in '%s'"
	MsgRolesReset        = "%s reset their '%s' roles"
	MsgRolesChangeFail   = "Failed to change roles of %s in '%s': %v"
	MsgRolesReactionFail = "Failed to remove reaction: %v"
	MsgRolesSent         = "The '%s' role message has been sent."
	MsgRolesUpdated      = "The '%s' role message has been updated."
	MsgRolesUnknown      = "Identifier '%s' does not exist."
	MsgRolesNotSent      = "The '%s' role message has not been sent yet."
	MsgRolesFail         = "Failed to handle the '%s' role message: %v"
	MsgRolesIdentifiers  = "Identifiers:%s"

	// --- Generic ---
	MsgGuildOnly = "This command can only be used in a server."
)
