package rbac

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermChatWithSouls allows chatting with active souls. This is the basic
	// permission every role holds and the default for unmapped routes.
	PermChatWithSouls = "chat_with_souls"
	// PermViewDashboard allows viewing the souls overview dashboard.
	PermViewDashboard = "view_dashboard"

	// PermAccessTraining allows entering the trainer console.
	PermAccessTraining = "access_training"
	// PermManageTrainingPlans allows starting and completing training sessions.
	PermManageTrainingPlans = "manage_training_plans"

	// PermAccessCounselorQueue allows entering the counselor queue.
	PermAccessCounselorQueue = "access_counselor_queue"
	// PermReviewFlaggedChats allows claiming and resolving flagged chats.
	PermReviewFlaggedChats = "review_flagged_chats"

	// PermManageUsers allows managing user accounts.
	PermManageUsers = "manage_users"
	// PermManageSouls allows creating, editing and retiring souls.
	PermManageSouls = "manage_souls"
	// PermManageSettings allows managing console-wide settings.
	PermManageSettings = "manage_settings"
)
